package db

import (
	"fmt"
	"sync"
	"time"

	"inviteflow/conf"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB *gorm.DB
	mu sync.Mutex
)

type Config struct {
	Driver    string
	User      string
	Password  string
	Host      string
	Port      string
	DBName    string
	Charset   string // optional
	Loc       string // optional
	ParseTime bool   // optional

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func NewConfig(cfg conf.Db) Config {
	return Config{
		Driver:          cfg.Driver,
		User:            cfg.Username,
		Password:        cfg.Password,
		Host:            cfg.Host,
		Port:            cfg.Port,
		DBName:          cfg.DbName,
		Charset:         "utf8mb4",
		Loc:             "Local",
		ParseTime:       true,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnLifetime(),
	}
}

func (cfg Config) DSN() string {
	switch cfg.Driver {
	case "postgres":
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.DBName, port)
	case "sqlite":
		// dbname 即数据库文件路径，如 inviteflow.db 或 file::memory:?cache=shared
		return cfg.DBName
	}

	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	loc := cfg.Loc
	if loc == "" {
		loc = "Local"
	}
	host := cfg.Host
	if cfg.Port != "" {
		host = host + ":" + cfg.Port
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=%s",
		cfg.User, cfg.Password, host, cfg.DBName, charset, cfg.ParseTime, loc,
	)
}

func (cfg Config) dialector() (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Open 按配置建立连接，唯一索引冲突统一转换为 gorm.ErrDuplicatedKey
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}
	ds, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Set connection pool
	sqlDB, err := ds.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.Driver == "sqlite" {
		// sqlite 同一时间只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return ds, nil
}

// Init 初始化全局连接，连接成功后再次调用直接返回，失败可以重试
func Init(cfg Config) (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	if DB != nil {
		return DB, nil
	}
	ds, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	DB = ds
	return DB, nil
}

// Close 关闭全局连接
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	DB = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
