package conf

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// 配置加载：先读取yaml，再用环境变量覆盖

type Db struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER"` // mysql | postgres | sqlite
	DbName          string `yaml:"dbname" env:"DB_NAME"`
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	Username        string `yaml:"username" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	MaxIdleConns    int    `yaml:"max-idle-conns"`
	MaxOpenConns    int    `yaml:"max-open-conns"`
	ConnMaxLifetime string `yaml:"conn-max-lifetime"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address" env:"REDIS_ADDR"`
	Password     string `yaml:"password" env:"REDIS_PASSWORD"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type JwtConfig struct {
	Secret                  string `yaml:"secret" env:"JWT_SECRET"`
	JwtTtl                  int64  `yaml:"ttl"`             // token 有效期（秒）
	JwtBlacklistGracePeriod int64  `yaml:"blacklistperiod"` // 黑名单宽限时间（秒）
}

type KafkaConfig struct {
	Broker string `yaml:"broker" env:"KAFKA_BROKER"` // 为空时不发送到kafka
	Topic  string `yaml:"topic"`
	// 未配置broker时把事件写入该文件，都为空则丢弃事件
	RecordFile string `yaml:"record-file"`
}

// AuthConfig 手机验证码登陆
type AuthConfig struct {
	CodeLength   int    `yaml:"code-length"`
	SendDelayMin string `yaml:"send-delay-min"` // 发送验证码的人为延迟下限，如 1s
	SendDelayMax string `yaml:"send-delay-max"`
	// 是否把验证码直接返回给调用方，只应在开发环境打开
	ExposeCode  bool   `yaml:"expose-code" env:"AUTH_EXPOSE_CODE"`
	CodeStorage string `yaml:"code-storage"` // plain | bcrypt
	// 同一ip两次请求验证码的最小间隔，0s表示不限制
	ResendGap string `yaml:"resend-interval"`
}

type InviteConfig struct {
	CodeLength int `yaml:"code-length"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen" env:"LISTEN"`
	Mode         string `yaml:"mode" env:"GIN_MODE"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`
	// 为true时只允许本机访问 /metrics
	MetricsLocalOnly bool `yaml:"metrics-local-only" env:"METRICS_LOCAL_ONLY"`
	// 信任的反向代理地址或网段，为空时忽略X-Forwarded-For，客户端ip取连接地址
	TrustedProxies []string `yaml:"trusted-proxies" env:"TRUSTED_PROXIES"`

	Db     `yaml:"database"`
	Log    LogConfig    `yaml:"log"`
	Jwt    JwtConfig    `yaml:"jwt"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Auth   AuthConfig   `yaml:"auth"`
	Invite InviteConfig `yaml:"invite"`
}

const (
	CodeStoragePlain  = "plain"
	CodeStorageBcrypt = "bcrypt"
)

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	if err := env.Parse(&AppConfig); err != nil {
		return fmt.Errorf("Parse config env error: %w", err)
	}
	AppConfig.SetDefaults()
	return nil
}

// SetDefaults 填充未配置的字段
func (c *Config) SetDefaults() {
	if c.AppName == "" {
		c.AppName = "inviteflow"
	}
	if c.Listen == "" {
		c.Listen = ":12180"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.MaxPingCount <= 0 {
		c.MaxPingCount = 10
	}
	if c.Db.Driver == "" {
		c.Db.Driver = "mysql"
	}
	if c.Db.MaxIdleConns <= 0 {
		c.Db.MaxIdleConns = 10
	}
	if c.Db.MaxOpenConns <= 0 {
		c.Db.MaxOpenConns = 100
	}
	if c.Jwt.JwtTtl <= 0 {
		c.Jwt.JwtTtl = 86400
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "account_invite"
	}
	if c.Auth.CodeLength <= 0 {
		c.Auth.CodeLength = 4
	}
	if c.Auth.SendDelayMin == "" {
		c.Auth.SendDelayMin = "1s"
	}
	if c.Auth.SendDelayMax == "" {
		c.Auth.SendDelayMax = "2s"
	}
	if c.Auth.ResendGap == "" {
		c.Auth.ResendGap = "1s"
	}
	if c.Auth.CodeStorage == "" {
		c.Auth.CodeStorage = CodeStoragePlain
	}
	if c.Invite.CodeLength <= 0 {
		c.Invite.CodeLength = 6
	}
}

// SendDelay 返回发送验证码时的随机延迟区间
func (a AuthConfig) SendDelay() (lo, hi time.Duration) {
	lo = cast.ToDuration(a.SendDelayMin)
	hi = cast.ToDuration(a.SendDelayMax)
	if hi < lo {
		hi = lo
	}
	return
}

// ResendInterval 发送验证码的限流间隔
func (a AuthConfig) ResendInterval() time.Duration {
	return cast.ToDuration(a.ResendGap)
}

// ConnLifetime 连接最大存活时间，默认一小时
func (d Db) ConnLifetime() time.Duration {
	if d.ConnMaxLifetime == "" {
		return time.Hour
	}
	return cast.ToDuration(d.ConnMaxLifetime)
}
