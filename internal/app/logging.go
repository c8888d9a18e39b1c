package app

import (
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dep2p/go-virgo/internal/util/logger"
)

// setupLogging 按配置设置日志级别、格式与输出
//
// 配置 Log.File 时输出重定向到滚动文件。
func (b *Bootstrap) setupLogging() error {
	lc := b.config.Log

	level := lc.Level
	if level == "" {
		level = os.Getenv(logger.EnvLogLevel)
	}
	logger.Configure(level, lc.Format)

	if lc.File == "" {
		return nil
	}

	rotator := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   lc.Compress,
	}
	logger.SetOutput(rotator)
	b.closers = append(b.closers, func() error {
		logger.SetOutput(os.Stderr)
		return rotator.Close()
	})

	logger.Logger("bootstrap").Info("日志文件初始化成功", "path", lc.File)
	return nil
}
