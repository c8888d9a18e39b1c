package routing

import (
	"fmt"
	"math/rand/v2"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//                              评分策略
// ============================================================================

// ScoringStrategy 端点评分策略
//
// 所有方法都是纯函数：输入当前分数，返回新分数，结果不小于 0。
type ScoringStrategy interface {
	// Name 策略名称
	Name() string

	// BaseScore 端点类型对应的基础分
	BaseScore(kind types.EndpointKind) int

	// Success 一次成功后的分数
	Success(score int) int

	// Failure 一次失败后的分数
	Failure(score int) int

	// Refresh 周期刷新后的分数
	Refresh(kind types.EndpointKind, score int) int
}

// StrategyOption 策略选项
type StrategyOption func(*strategyOptions)

type strategyOptions struct {
	intN func(n int) int
}

// WithRandom 指定抖动随机源，intN 返回 [0, n) 的整数
func WithRandom(intN func(n int) int) StrategyOption {
	return func(o *strategyOptions) {
		if intN != nil {
			o.intN = intN
		}
	}
}

// NewStrategy 按配置创建评分策略
func NewStrategy(cfg config.ScoringConfig, opts ...StrategyOption) (ScoringStrategy, error) {
	o := strategyOptions{intN: rand.IntN}
	for _, opt := range opts {
		opt(&o)
	}

	tiers := tierScoring{cfg: cfg}
	switch cfg.Strategy {
	case config.StrategyEventDriven:
		return &EventDriven{tierScoring: tiers}, nil
	case config.StrategyPeriodicJitter:
		return &PeriodicJitter{tierScoring: tiers, intN: o.intN}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

// tierScoring 两种策略共享的层级基础分与增减分
type tierScoring struct {
	cfg config.ScoringConfig
}

func (t tierScoring) BaseScore(kind types.EndpointKind) int {
	return clampScore(t.cfg.BaseFor(kind))
}

func (t tierScoring) Success(score int) int {
	return clampScore(score + t.cfg.SuccessDelta)
}

func (t tierScoring) Failure(score int) int {
	return clampScore(score - t.cfg.FailureDelta)
}

// EventDriven 事件驱动评分：只由成功/失败事件调整
type EventDriven struct {
	tierScoring
}

// Name 策略名称
func (*EventDriven) Name() string { return config.StrategyEventDriven }

// Refresh 事件驱动策略没有环境信号，分数保持不变
func (*EventDriven) Refresh(_ types.EndpointKind, score int) int {
	return clampScore(score)
}

// PeriodicJitter 周期抖动评分：刷新时重算为基础分 ± Jitter
type PeriodicJitter struct {
	tierScoring
	intN func(n int) int
}

// Name 策略名称
func (*PeriodicJitter) Name() string { return config.StrategyPeriodicJitter }

// Refresh 重算为基础分加 [-Jitter, +Jitter] 的均匀抖动
func (p *PeriodicJitter) Refresh(kind types.EndpointKind, _ int) int {
	base := p.BaseScore(kind)
	j := p.cfg.Jitter
	if j <= 0 {
		return base
	}
	return clampScore(base + p.intN(2*j+1) - j)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

// 确保实现接口
var (
	_ ScoringStrategy = (*EventDriven)(nil)
	_ ScoringStrategy = (*PeriodicJitter)(nil)
)
