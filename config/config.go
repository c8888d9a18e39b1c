// Package config 提供统一的配置管理
//
// 本包采用与各子系统一一对应的子配置：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，提供 DefaultXConfig() 与 Validate()
//   - Load 通过 viper 读取配置文件与 VIRGO_ 前缀的环境变量
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Election.TickInterval = 2 * time.Second
//
//	cfg, err := config.Load("/etc/virgo/node.yaml", nil)
package config

import "errors"

// Config 是 virgo 节点的完整配置结构
//
//   - Identity: 节点身份与规范身份（引导）
//   - Routing: 端点评分、种子路由、淘汰策略
//   - Election: 选举 tick、重选超时、资格策略
//   - Heartbeat: 编解码、发送超时与并发
//   - Transport: 数据报传输
//   - Metrics: prometheus 指标
//   - Log: 日志
type Config struct {
	// Identity 身份配置
	Identity IdentityConfig `json:"identity" mapstructure:"identity"`

	// Routing 路由表配置
	Routing RoutingConfig `json:"routing" mapstructure:"routing"`

	// Election 协调者选举配置
	Election ElectionConfig `json:"election" mapstructure:"election"`

	// Heartbeat 心跳配置
	Heartbeat HeartbeatConfig `json:"heartbeat" mapstructure:"heartbeat"`

	// Transport 传输配置
	Transport TransportConfig `json:"transport" mapstructure:"transport"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" mapstructure:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Identity:  DefaultIdentityConfig(),
		Routing:   DefaultRoutingConfig(),
		Election:  DefaultElectionConfig(),
		Heartbeat: DefaultHeartbeatConfig(),
		Transport: DefaultTransportConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	if err := c.Routing.Validate(); err != nil {
		return err
	}
	if err := c.Election.Validate(); err != nil {
		return err
	}
	if err := c.Heartbeat.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
