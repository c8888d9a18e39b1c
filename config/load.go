package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 VIRGO_ELECTION_TICK_INTERVAL=2s
const EnvPrefix = "VIRGO"

// Load 从配置文件与环境变量加载配置
//
// 优先级（从高到低）：v 上已绑定的命令行参数 > 环境变量 > 配置文件 > 默认值。
// path 为空时只使用环境变量与默认值。v 为 nil 时新建实例。
func Load(path string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// setDefaults 将默认配置中的标量字段注册为 viper 默认值
//
// 注册后的键才能被 AutomaticEnv 覆盖；列表类字段只从配置文件读取。
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("identity.node_id", d.Identity.NodeID)

	v.SetDefault("routing.max_endpoints", d.Routing.MaxEndpoints)
	v.SetDefault("routing.scoring.strategy", d.Routing.Scoring.Strategy)
	v.SetDefault("routing.scoring.public_base", d.Routing.Scoring.PublicBase)
	v.SetDefault("routing.scoring.private_base", d.Routing.Scoring.PrivateBase)
	v.SetDefault("routing.scoring.tunnel_base", d.Routing.Scoring.TunnelBase)
	v.SetDefault("routing.scoring.success_delta", d.Routing.Scoring.SuccessDelta)
	v.SetDefault("routing.scoring.failure_delta", d.Routing.Scoring.FailureDelta)
	v.SetDefault("routing.scoring.jitter", d.Routing.Scoring.Jitter)

	v.SetDefault("election.tick_interval", d.Election.TickInterval)
	v.SetDefault("election.reelection_timeout", d.Election.ReelectionTimeout)
	v.SetDefault("election.policy", d.Election.Policy)

	v.SetDefault("heartbeat.codec", d.Heartbeat.Codec)
	v.SetDefault("heartbeat.send_timeout", d.Heartbeat.SendTimeout)
	v.SetDefault("heartbeat.max_concurrent_sends", d.Heartbeat.MaxConcurrentSends)

	v.SetDefault("transport.kind", d.Transport.Kind)
	v.SetDefault("transport.listen_addr", d.Transport.ListenAddr)
	v.SetDefault("transport.read_buffer_size", d.Transport.ReadBufferSize)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.listen_addr", d.Metrics.ListenAddr)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}
