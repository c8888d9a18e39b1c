package election

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/types"
)

var log = logger.Logger("election")

// DefaultReelectionTimeout 默认重选超时
const DefaultReelectionTimeout = 15 * time.Second

// CandidateSource 按分数排序的候选来源（通常是 *routing.RouteTable）
type CandidateSource interface {
	BestCandidates(role types.RolePath) ([]routing.Endpoint, bool)
}

// CandidateSourceFunc 函数形式的候选来源
type CandidateSourceFunc func(role types.RolePath) ([]routing.Endpoint, bool)

// BestCandidates 实现 CandidateSource
func (f CandidateSourceFunc) BestCandidates(role types.RolePath) ([]routing.Endpoint, bool) {
	return f(role)
}

// ============================================================================
//                              Outcome - 单角色选举结果
// ============================================================================

// Action 单角色选举动作
type Action int

const (
	// ActionKept 协调者新鲜，保持不变
	ActionKept Action = iota
	// ActionInstalled 安装了新的协调者
	ActionInstalled
	// ActionCleared 协调者过期且没有合格候选，已移除
	ActionCleared
	// ActionNoEligible 没有协调者且没有合格候选
	ActionNoEligible
)

// String 返回动作的字符串表示（同时用作指标标签）
func (a Action) String() string {
	switch a {
	case ActionKept:
		return "kept"
	case ActionInstalled:
		return "installed"
	case ActionCleared:
		return "cleared"
	case ActionNoEligible:
		return "no-eligible"
	default:
		return "unknown"
	}
}

// Outcome 单个角色一次选举的结果
type Outcome struct {
	Role     types.RolePath
	Previous State
	Action   Action

	// Coordinator 选举后的协调者，Cleared/NoEligible 时为零值
	Coordinator Coordinator

	// Err 没有合格候选时为 ErrNoEligibleEndpoint
	Err error
}

// ============================================================================
//                              Engine - 选举引擎
// ============================================================================

// Engine 协调者选举引擎
type Engine struct {
	node         types.Node
	source       CandidateSource
	coordinators *Coordinators
	policy       EligibilityPolicy

	clock   clock.Clock
	timeout time.Duration
	metrics *metrics.Metrics
}

// EngineOption 引擎选项
type EngineOption func(*Engine)

// WithClock 指定时钟
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithReelectionTimeout 指定重选超时
func WithReelectionTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine 创建选举引擎
//
// policy 为 nil 时使用 PermissivePolicy。
func NewEngine(node types.Node, source CandidateSource, coordinators *Coordinators, policy EligibilityPolicy, opts ...EngineOption) *Engine {
	if policy == nil {
		policy = PermissivePolicy{}
	}
	e := &Engine{
		node:         node,
		source:       source,
		coordinators: coordinators,
		policy:       policy,
		clock:        clock.New(),
		timeout:      DefaultReelectionTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Coordinators 返回协调者表
func (e *Engine) Coordinators() *Coordinators {
	return e.coordinators
}

// State 返回角色当前的选举状态
func (e *Engine) State(role types.RolePath) State {
	return e.coordinators.State(role, e.clock.Now(), e.timeout)
}

// Run 对本地节点持有的每个角色执行一次选举
//
// 角色按身份顺序处理，先选出的协调者对后续角色的资格判定可见。
// ctx 取消时停止处理剩余角色。
func (e *Engine) Run(ctx context.Context) []Outcome {
	now := e.clock.Now()
	snapshot := e.coordinators.Snapshot()
	roles := e.node.Roles()

	outcomes := make([]Outcome, 0, len(roles))
	for _, role := range roles {
		if ctx.Err() != nil {
			break
		}
		o := e.elect(role, now, snapshot)
		e.metrics.ObserveElection(o.Action.String())
		outcomes = append(outcomes, o)
	}

	e.metrics.SetCoordinators(e.coordinators.Len())
	return outcomes
}

func (e *Engine) elect(role types.RolePath, now time.Time, snapshot map[types.RolePath]Coordinator) Outcome {
	cur, had := snapshot[role]
	prev := StateNoCoordinator
	if had {
		prev = StateFresh
		if cur.IsStale(now, e.timeout) {
			prev = StateStale
		}
	}

	if prev == StateFresh {
		return Outcome{Role: role, Previous: prev, Action: ActionKept, Coordinator: cur}
	}

	candidates, _ := e.source.BestCandidates(role)
	for _, ep := range candidates {
		if !e.policy.Eligible(ep, role, snapshot) {
			continue
		}

		next := Coordinator{NodeID: ep.NodeID, Endpoint: ep, Freshness: now}
		if !e.coordinators.ReplaceIfStale(role, next, now, e.timeout) {
			// 心跳在此期间刷新了协调者
			return e.keepLatest(role, prev, snapshot)
		}
		snapshot[role] = next

		if !had || cur.NodeID != next.NodeID {
			e.metrics.CoordinatorChanged()
		}
		log.Info("选出协调者",
			"role", role,
			"coordinator", next.NodeID,
			"addr", ep.Addr,
			"score", ep.Score,
			"previous", prev.String())
		return Outcome{Role: role, Previous: prev, Action: ActionInstalled, Coordinator: next}
	}

	log.Debug("角色没有合格候选", "role", role, "candidates", len(candidates), "error", ErrNoEligibleEndpoint)

	if prev == StateStale {
		if !e.coordinators.RemoveIfStale(role, now, e.timeout) {
			return e.keepLatest(role, prev, snapshot)
		}
		delete(snapshot, role)
		log.Info("协调者过期且无合格候选，已移除", "role", role, "coordinator", cur.NodeID)
		return Outcome{Role: role, Previous: prev, Action: ActionCleared, Err: ErrNoEligibleEndpoint}
	}
	return Outcome{Role: role, Previous: prev, Action: ActionNoEligible, Err: ErrNoEligibleEndpoint}
}

func (e *Engine) keepLatest(role types.RolePath, prev State, snapshot map[types.RolePath]Coordinator) Outcome {
	latest, ok := e.coordinators.Get(role)
	if !ok {
		delete(snapshot, role)
		return Outcome{Role: role, Previous: prev, Action: ActionNoEligible, Err: ErrNoEligibleEndpoint}
	}
	snapshot[role] = latest
	return Outcome{Role: role, Previous: prev, Action: ActionKept, Coordinator: latest}
}
