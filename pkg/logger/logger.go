package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例
var Log *zap.Logger

// Init 初始化日志
// mode 为 debug 时使用开发配置（彩色、人类可读），否则使用生产 JSON 配置
func Init(mode string) error {
	var (
		l   *zap.Logger
		err error
	)

	if mode == "debug" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}

	Log = l
	zap.ReplaceGlobals(l)
	return nil
}

// Sync 刷新缓冲中的日志
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
