package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L 是进程级日志实例，Init 之前为空操作日志器。
var L = zap.NewNop()

// Init 按级别初始化 zap 日志器并替换全局实例。
func Init(level string) error {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	built, err := config.Build()
	if err != nil {
		return err
	}

	L = built
	return nil
}

// Sync 刷新缓冲日志，进程退出前调用。
func Sync() {
	_ = L.Sync()
}
