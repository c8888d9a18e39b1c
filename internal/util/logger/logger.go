// Package logger 提供 virgo 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（VIRGO_LOG_LEVEL, VIRGO_LOG_FORMAT）
//   - 运行时由配置文件覆盖（Configure）
//
// 使用示例:
//
//	var log = logger.Logger("election")
//
//	log.Info("coordinator installed", "role", role, "node", nodeID)
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	h := newHandler(subsystem, currentConfig())
	actualHandler, _ := handlers.LoadOrStore(subsystem, h)
	actual, _ := loggers.LoadOrStore(subsystem, slog.New(actualHandler.(*subsystemHandler)))
	return actual.(*slog.Logger)
}

// Configure 以给定配置替换环境变量配置，已创建的 Logger 立即生效
//
// levelSpec 格式与 VIRGO_LOG_LEVEL 相同，空串表示保持 info。
func Configure(levelSpec, format string) {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          ParseFormat(format),
		AddSource:       currentConfig().AddSource,
	}
	ParseLevelSpec(cfg, levelSpec)

	activeConfigMu.Lock()
	activeConfig = cfg
	activeConfigMu.Unlock()

	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).reconfigure(cfg)
		return true
	})
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	Logger(subsystem)
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样会被重定向。
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}

// Discard 返回一个丢弃所有日志的 Logger
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
