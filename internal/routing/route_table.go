package routing

import (
	"slices"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/types"
)

var log = logger.Logger("routing")

// ============================================================================
//                              RouteTable - 路由表
// ============================================================================

// entryKey 淘汰用的条目键
type entryKey struct {
	role   types.RolePath
	nodeID types.NodeID
	addr   string
}

// RouteTable 角色路径 → 候选端点列表
//
// 并发安全。列表保持插入顺序；读操作只返回副本。
type RouteTable struct {
	strategy ScoringStrategy
	clock    clock.Clock

	mu      sync.RWMutex
	entries map[types.RolePath][]Endpoint

	// lru 仅在设置 MaxEndpoints 时启用
	lru     *simplelru.LRU[entryKey, struct{}]
	evicted []entryKey
}

// Option 路由表选项
type Option func(*RouteTable)

// WithClock 指定时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(t *RouteTable) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithMaxEndpoints 启用 LRU 淘汰，上限按 (角色, 节点, 地址) 计
//
// max <= 0 时不淘汰。
func WithMaxEndpoints(max int) Option {
	return func(t *RouteTable) {
		if max <= 0 {
			t.lru = nil
			return
		}
		// 仅在 size <= 0 时返回错误
		t.lru, _ = simplelru.NewLRU[entryKey, struct{}](max, func(k entryKey, _ struct{}) {
			t.evicted = append(t.evicted, k)
		})
	}
}

// NewRouteTable 创建路由表
func NewRouteTable(strategy ScoringStrategy, opts ...Option) *RouteTable {
	t := &RouteTable{
		strategy: strategy,
		clock:    clock.New(),
		entries:  make(map[types.RolePath][]Endpoint),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Strategy 返回评分策略
func (t *RouteTable) Strategy() ScoringStrategy {
	return t.strategy
}

// AddCandidate 向角色追加候选端点，角色不存在时自动创建
//
// 负分按 0 处理。启用 MaxEndpoints 时，已存在的 (role, node, addr)
// 原位覆盖并刷新最近使用，不再追加。
func (t *RouteTable) AddCandidate(role types.RolePath, ep Endpoint) {
	ep.Score = clampScore(ep.Score)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lru == nil {
		t.entries[role] = append(t.entries[role], ep)
		log.Debug("添加候选端点", "role", role, "endpoint", ep.String())
		return
	}

	key := entryKey{role: role, nodeID: ep.NodeID, addr: ep.Addr}
	if t.lru.Contains(key) && t.updateLocked(role, ep.NodeID, ep.Addr, func(cur *Endpoint) { *cur = ep }) {
		log.Debug("更新候选端点", "role", role, "endpoint", ep.String())
	} else {
		t.entries[role] = append(t.entries[role], ep)
		log.Debug("添加候选端点", "role", role, "endpoint", ep.String())
	}
	t.lru.Add(key, struct{}{})
	t.dropEvictedLocked()
}

// NewCandidate 以策略基础分创建端点并追加
func (t *RouteTable) NewCandidate(role types.RolePath, nodeID types.NodeID, kind types.EndpointKind, addr string) Endpoint {
	ep := NewEndpoint(nodeID, kind, addr, t.strategy)
	t.AddCandidate(role, ep)
	return ep
}

// ListCandidates 返回角色的候选端点副本（插入顺序）
func (t *RouteTable) ListCandidates(role types.RolePath) ([]Endpoint, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	eps, ok := t.entries[role]
	if !ok {
		return nil, false
	}
	return slices.Clone(eps), true
}

// BestCandidates 返回按分数降序排列的候选端点副本
//
// 同分保持插入顺序。角色不存在时返回 false。
func (t *RouteTable) BestCandidates(role types.RolePath) ([]Endpoint, bool) {
	t.mu.RLock()
	eps, ok := t.entries[role]
	if !ok {
		t.mu.RUnlock()
		return nil, false
	}
	ranked := slices.Clone(eps)
	t.mu.RUnlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, true
}

// Best 返回角色的最高分端点
func (t *RouteTable) Best(role types.RolePath) (Endpoint, bool) {
	ranked, ok := t.BestCandidates(role)
	if !ok || len(ranked) == 0 {
		return Endpoint{}, false
	}
	return ranked[0], true
}

// Refresh 对所有端点执行策略刷新
func (t *RouteTable) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, eps := range t.entries {
		for i := range eps {
			eps[i].Refresh(t.strategy)
		}
	}
}

// ReportSuccess 记录 (角色, 节点, 地址) 对应端点的一次成功
//
// 返回是否找到端点。
func (t *RouteTable) ReportSuccess(role types.RolePath, nodeID types.NodeID, addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	found := t.updateLocked(role, nodeID, addr, func(ep *Endpoint) {
		ep.ReportSuccess(t.strategy, now)
	})
	if found && t.lru != nil {
		t.lru.Get(entryKey{role: role, nodeID: nodeID, addr: addr})
	}
	return found
}

// ReportFailure 记录 (角色, 节点, 地址) 对应端点的一次失败
//
// 返回是否找到端点。
func (t *RouteTable) ReportFailure(role types.RolePath, nodeID types.NodeID, addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	return t.updateLocked(role, nodeID, addr, func(ep *Endpoint) {
		ep.ReportFailure(t.strategy, now)
	})
}

// Roles 返回所有角色路径（已排序）
func (t *RouteTable) Roles() []types.RolePath {
	t.mu.RLock()
	roles := make([]types.RolePath, 0, len(t.entries))
	for role := range t.entries {
		roles = append(roles, role)
	}
	t.mu.RUnlock()

	slices.Sort(roles)
	return roles
}

// Size 返回端点总数
func (t *RouteTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, eps := range t.entries {
		n += len(eps)
	}
	return n
}

func (t *RouteTable) updateLocked(role types.RolePath, nodeID types.NodeID, addr string, fn func(*Endpoint)) bool {
	eps, ok := t.entries[role]
	if !ok {
		return false
	}
	found := false
	for i := range eps {
		if eps[i].NodeID == nodeID && eps[i].Addr == addr {
			fn(&eps[i])
			found = true
		}
	}
	return found
}

// dropEvictedLocked 移除 LRU 回调收集到的条目
func (t *RouteTable) dropEvictedLocked() {
	for _, k := range t.evicted {
		eps := slices.DeleteFunc(t.entries[k.role], func(ep Endpoint) bool {
			return ep.NodeID == k.nodeID && ep.Addr == k.addr
		})
		if len(eps) == 0 {
			delete(t.entries, k.role)
		} else {
			t.entries[k.role] = eps
		}
		log.Debug("淘汰候选端点", "role", k.role, "node", k.nodeID, "addr", k.addr)
	}
	t.evicted = t.evicted[:0]
}
