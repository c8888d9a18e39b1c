package config

import (
	"errors"
	"fmt"
	"strings"
)

// MetricsConfig prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否暴露指标
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// ListenAddr HTTP 监听地址
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"`

	// Path 指标路径
	Path string `json:"path" mapstructure:"path"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:    false,
		ListenAddr: "127.0.0.1:9464",
		Path:       "/metrics",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ListenAddr == "" {
		return errors.New("metrics listen addr is empty")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("metrics path must start with /")
	}
	return nil
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 级别，格式同 VIRGO_LOG_LEVEL（election=debug,info）
	// 为空时使用环境变量
	Level string `json:"level" mapstructure:"level"`

	// Format text / json
	Format string `json:"format" mapstructure:"format"`

	// File 日志文件，为空输出到 stderr
	File string `json:"file" mapstructure:"file"`

	// MaxSizeMB 单个文件大小上限（轮转）
	MaxSizeMB int `json:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups 保留的旧文件数
	MaxBackups int `json:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays 旧文件保留天数
	MaxAgeDays int `json:"max_age_days" mapstructure:"max_age_days"`

	// Compress 是否压缩旧文件
	Compress bool `json:"compress" mapstructure:"compress"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Format:     "text",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	if c.File != "" && c.MaxSizeMB <= 0 {
		return errors.New("log max size must be positive when file output is enabled")
	}
	return nil
}
