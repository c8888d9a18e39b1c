package config

import "fmt"

// 传输类型
const (
	TransportUDP    = "udp"
	TransportMemory = "mem"
)

// TransportConfig 数据报传输配置
type TransportConfig struct {
	// Kind 传输类型：udp / mem
	Kind string `json:"kind" mapstructure:"kind"`

	// ListenAddr 监听地址
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"`

	// ReadBufferSize 单个数据报读缓冲大小
	ReadBufferSize int `json:"read_buffer_size" mapstructure:"read_buffer_size"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Kind:           TransportUDP,
		ListenAddr:     "0.0.0.0:0", // 随机端口
		ReadBufferSize: 1024,        // 心跳负载很小，1 KiB 足够
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	switch c.Kind {
	case TransportUDP, TransportMemory:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Kind)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("transport listen addr is empty")
	}
	if c.ReadBufferSize <= 0 || c.ReadBufferSize > 64*1024 {
		return fmt.Errorf("transport read buffer size must be in (0, 65536]")
	}
	return nil
}
