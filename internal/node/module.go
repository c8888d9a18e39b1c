package node

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/heartbeat"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//
//	Fx 模块定义
//
// ============================================================================

// Module Node Fx 模块
var Module = fx.Module("node",
	fx.Provide(NewFromParams),
	fx.Invoke(registerLifecycle),
)

// Params Node 依赖参数
type Params struct {
	fx.In

	Config     *config.Config
	Self       types.Node
	RouteTable *routing.RouteTable
	Engine     *election.Engine
	Tracker    *heartbeat.Tracker
	Transport  interfaces.Transport
	Clock      clock.Clock      `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
}

// Result Node 导出结果
type Result struct {
	fx.Out

	Node   *Node
	Status metrics.StatusProvider
}

// NewFromParams 从 Fx 参数创建 Node
func NewFromParams(p Params) Result {
	n := New(p.Self, p.RouteTable, p.Engine, p.Tracker, p.Transport,
		WithClock(p.Clock),
		WithTickInterval(p.Config.Election.TickInterval),
		WithMetrics(p.Metrics),
	)
	return Result{Node: n, Status: n}
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, n *Node) {
	lc.Append(fx.Hook{
		OnStart: n.Start,
		OnStop:  n.Stop,
	})
}
