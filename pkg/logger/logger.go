package logger

import (
	"os"
	"time"

	"inviteflow/conf"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	zl    *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	// 未初始化前丢弃所有日志，测试中可以直接调用
	zl = zap.NewNop()
	sugar = zl.Sugar()
}

// InitLogger 初始化全局logger，文件按大小切割，可同时输出到控制台
func InitLogger(cfg *conf.LogConfig, appName string) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if l, err := zapcore.ParseLevel(cfg.Level); err == nil {
			level = l
		}
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05.000"
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(timeFormat))
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if cfg.FileName != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.FileName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}
	if cfg.Console || len(cores) == 0 {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stdout), level))
	}

	zl = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("app", appName))
	sugar = zl.Sugar()
}

// Sync 刷新缓冲区，进程退出前调用
func Sync() {
	_ = zl.Sync()
}

// Pair 构造一个日志字段
func Pair(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

func Debug(msg string, fields ...zap.Field) { zl.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { zl.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { zl.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { zl.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { zl.Fatal(msg, fields...) }

func Debugf(format string, args ...interface{}) { sugar.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { sugar.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { sugar.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { sugar.Errorf(format, args...) }
