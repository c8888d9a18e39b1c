package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-virgo/pkg/types"
)

// 评分策略名称
const (
	// StrategyEventDriven 事件驱动：成功/失败增减分，周期刷新不变
	StrategyEventDriven = "event-driven"
	// StrategyPeriodicJitter 周期抖动：周期刷新为层级基础分加随机抖动
	StrategyPeriodicJitter = "periodic-jitter"
)

// RoutingConfig 路由表配置
type RoutingConfig struct {
	// Scoring 评分配置
	Scoring ScoringConfig `json:"scoring" mapstructure:"scoring"`

	// Seeds 启动种子路由条目
	Seeds []SeedConfig `json:"seeds" mapstructure:"seeds"`

	// MaxEndpoints 候选端点总数上限（LRU 淘汰）
	// 0 表示不限制，路由条目只增不减
	MaxEndpoints int `json:"max_endpoints" mapstructure:"max_endpoints"`
}

// ScoringConfig 端点评分配置
type ScoringConfig struct {
	// Strategy 评分策略：event-driven / periodic-jitter
	Strategy string `json:"strategy" mapstructure:"strategy"`

	// PublicBase 公网端点基础分
	PublicBase int `json:"public_base" mapstructure:"public_base"`

	// PrivateBase 内网端点基础分
	PrivateBase int `json:"private_base" mapstructure:"private_base"`

	// TunnelBase 隧道端点基础分
	TunnelBase int `json:"tunnel_base" mapstructure:"tunnel_base"`

	// SuccessDelta 成功一次的加分
	SuccessDelta int `json:"success_delta" mapstructure:"success_delta"`

	// FailureDelta 失败一次的扣分
	FailureDelta int `json:"failure_delta" mapstructure:"failure_delta"`

	// Jitter 周期刷新的随机抖动幅度（±Jitter）
	Jitter int `json:"jitter" mapstructure:"jitter"`
}

// SeedConfig 种子路由条目
type SeedConfig struct {
	// Role 角色路径
	Role string `json:"role" mapstructure:"role"`

	// NodeID 端点所属节点
	NodeID string `json:"node_id" mapstructure:"node_id"`

	// Addr 网络地址（ip:port）
	Addr string `json:"addr" mapstructure:"addr"`

	// Kind 端点类型：public / private / tunnel
	Kind string `json:"kind" mapstructure:"kind"`

	// Score 初始分，为空时使用类型基础分
	Score *int `json:"score,omitempty" mapstructure:"score"`
}

// DefaultRoutingConfig 返回默认路由配置
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		Scoring: ScoringConfig{
			Strategy:     StrategyPeriodicJitter, // 无直接探测信号时使用周期抖动
			PublicBase:   150,                    // 公网：最高层级
			PrivateBase:  80,                     // 内网：中间层级
			TunnelBase:   50,                     // 隧道：最低层级
			SuccessDelta: 10,                     // 成功：+10
			FailureDelta: 20,                     // 失败：-20（下限 0）
			Jitter:       10,                     // 抖动：±10
		},
		MaxEndpoints: 0, // 默认不淘汰
	}
}

// Validate 验证路由配置
func (c RoutingConfig) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if c.MaxEndpoints < 0 {
		return errors.New("routing max endpoints must be non-negative")
	}
	for i, seed := range c.Seeds {
		if err := seed.Validate(); err != nil {
			return fmt.Errorf("routing.seeds[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate 验证评分配置
func (c ScoringConfig) Validate() error {
	switch c.Strategy {
	case StrategyEventDriven, StrategyPeriodicJitter:
	default:
		return fmt.Errorf("unknown scoring strategy %q: must be %s or %s",
			c.Strategy, StrategyEventDriven, StrategyPeriodicJitter)
	}
	if c.PublicBase < 0 || c.PrivateBase < 0 || c.TunnelBase < 0 {
		return errors.New("scoring base scores must be non-negative")
	}
	if c.SuccessDelta <= 0 {
		return errors.New("scoring success delta must be positive")
	}
	if c.FailureDelta <= 0 {
		return errors.New("scoring failure delta must be positive")
	}
	if c.Jitter < 0 {
		return errors.New("scoring jitter must be non-negative")
	}
	return nil
}

// BaseFor 返回指定端点类型的基础分
func (c ScoringConfig) BaseFor(kind types.EndpointKind) int {
	switch kind {
	case types.EndpointPublic:
		return c.PublicBase
	case types.EndpointPrivate:
		return c.PrivateBase
	case types.EndpointTunnel:
		return c.TunnelBase
	default:
		return 0
	}
}

// Validate 验证种子条目
func (c SeedConfig) Validate() error {
	if c.Role == "" {
		return types.ErrEmptyRolePath
	}
	if c.NodeID == "" {
		return types.ErrEmptyNodeID
	}
	if c.Addr == "" {
		return errors.New("seed addr is empty")
	}
	if _, err := types.ParseEndpointKind(c.Kind); err != nil {
		return err
	}
	return nil
}
