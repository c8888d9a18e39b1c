package config

import (
	"errors"
	"fmt"
	"time"
)

// 心跳编解码器名称
const (
	CodecJSON  = "json"
	CodecCBOR  = "cbor"
	CodecProto = "proto"
)

// HeartbeatConfig 心跳配置
type HeartbeatConfig struct {
	// Codec 编解码器：json / cbor / proto
	Codec string `json:"codec" mapstructure:"codec"`

	// SendTimeout 单次发送超时
	SendTimeout time.Duration `json:"send_timeout" mapstructure:"send_timeout"`

	// MaxConcurrentSends 单个 tick 内并发发送上限
	MaxConcurrentSends int `json:"max_concurrent_sends" mapstructure:"max_concurrent_sends"`
}

// DefaultHeartbeatConfig 返回默认心跳配置
func DefaultHeartbeatConfig() HeartbeatConfig {
	return HeartbeatConfig{
		Codec:              CodecJSON,       // JSON：兼容历史负载
		SendTimeout:        2 * time.Second, // 发送超时：2 秒，小于 tick 间隔
		MaxConcurrentSends: 16,              // 并发：16 路
	}
}

// Validate 验证心跳配置
func (c HeartbeatConfig) Validate() error {
	switch c.Codec {
	case CodecJSON, CodecCBOR, CodecProto:
	default:
		return fmt.Errorf("unknown heartbeat codec %q", c.Codec)
	}
	if c.SendTimeout <= 0 {
		return errors.New("heartbeat send timeout must be positive")
	}
	if c.MaxConcurrentSends <= 0 {
		return errors.New("heartbeat max concurrent sends must be positive")
	}
	return nil
}
