package election

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//
//	Fx 模块定义
//
// ============================================================================

// Module Election Fx 模块
var Module = fx.Module("election",
	fx.Provide(
		NewCoordinators,
		NewPolicyFromParams,
		NewEngineFromParams,
	),
)

// PolicyParams 资格策略依赖参数
type PolicyParams struct {
	fx.In

	Config *config.Config
}

// PolicyResult 资格策略导出结果
type PolicyResult struct {
	fx.Out

	Policy EligibilityPolicy
}

// EngineParams 选举引擎依赖参数
type EngineParams struct {
	fx.In

	Config       *config.Config
	Node         types.Node
	RouteTable   *routing.RouteTable
	Coordinators *Coordinators
	Policy       EligibilityPolicy
	Clock        clock.Clock      `optional:"true"`
	Metrics      *metrics.Metrics `optional:"true"`
}

// EngineResult 选举引擎导出结果
type EngineResult struct {
	fx.Out

	Engine *Engine
}

// NewPolicyFromParams 从 Fx 参数创建资格策略
func NewPolicyFromParams(p PolicyParams) (PolicyResult, error) {
	policy, err := NewPolicy(p.Config.Election)
	if err != nil {
		return PolicyResult{}, err
	}
	return PolicyResult{Policy: policy}, nil
}

// NewEngineFromParams 从 Fx 参数创建选举引擎
func NewEngineFromParams(p EngineParams) EngineResult {
	engine := NewEngine(p.Node, p.RouteTable, p.Coordinators, p.Policy,
		WithClock(p.Clock),
		WithReelectionTimeout(p.Config.Election.ReelectionTimeout),
		WithMetrics(p.Metrics),
	)
	return EngineResult{Engine: engine}
}
