package routing

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//
//	Fx 模块定义
//
// ============================================================================

// Module Routing Fx 模块
var Module = fx.Module("routing",
	fx.Provide(
		NewStrategyFromParams,
		NewRouteTableFromParams,
	),
)

// ============================================================================
//
//	Fx 参数和结果
//
// ============================================================================

// StrategyParams 评分策略依赖参数
type StrategyParams struct {
	fx.In

	Config *config.Config
}

// StrategyResult 评分策略导出结果
type StrategyResult struct {
	fx.Out

	Strategy ScoringStrategy
}

// RouteTableParams RouteTable 依赖参数
type RouteTableParams struct {
	fx.In

	Config   *config.Config
	Strategy ScoringStrategy
	Clock    clock.Clock `optional:"true"`
}

// RouteTableResult RouteTable 导出结果
type RouteTableResult struct {
	fx.Out

	RouteTable *RouteTable
}

// ============================================================================
//
//	构造函数
//
// ============================================================================

// NewStrategyFromParams 从 Fx 参数创建评分策略
func NewStrategyFromParams(p StrategyParams) (StrategyResult, error) {
	s, err := NewStrategy(p.Config.Routing.Scoring)
	if err != nil {
		return StrategyResult{}, err
	}
	return StrategyResult{Strategy: s}, nil
}

// NewRouteTableFromParams 从 Fx 参数创建 RouteTable 并写入种子条目
func NewRouteTableFromParams(p RouteTableParams) (RouteTableResult, error) {
	table := NewRouteTable(p.Strategy,
		WithClock(p.Clock),
		WithMaxEndpoints(p.Config.Routing.MaxEndpoints),
	)
	if err := Seed(table, p.Config.Routing.Seeds); err != nil {
		return RouteTableResult{}, err
	}
	return RouteTableResult{RouteTable: table}, nil
}

// Seed 按配置写入种子条目
func Seed(table *RouteTable, seeds []config.SeedConfig) error {
	for i, seed := range seeds {
		kind, err := types.ParseEndpointKind(seed.Kind)
		if err != nil {
			return fmt.Errorf("seed %d: %w", i, err)
		}
		nodeID := types.NodeID(seed.NodeID)
		ep := NewEndpoint(nodeID, kind, seed.Addr, table.Strategy())
		if seed.Score != nil {
			ep = NewEndpointWithScore(nodeID, kind, seed.Addr, *seed.Score)
		}
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("seed %d: %w", i, err)
		}
		table.AddCandidate(types.RolePath(seed.Role), ep)
	}
	log.Info("路由种子已加载", "count", len(seeds))
	return nil
}
