package election

import (
	"sync"
	"time"

	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//                              Coordinator - 协调者
// ============================================================================

// Coordinator 角色当前选出的协调者
type Coordinator struct {
	// NodeID 协调者节点
	NodeID types.NodeID

	// Endpoint 选出时的端点（值拷贝）
	Endpoint routing.Endpoint

	// Freshness 最近一次安装或刷新的时间
	Freshness time.Time
}

// IsStale 在 now 时刻是否已过期
func (c Coordinator) IsStale(now time.Time, timeout time.Duration) bool {
	return now.Sub(c.Freshness) > timeout
}

// State 角色的选举状态
type State int

const (
	// StateNoCoordinator 无协调者
	StateNoCoordinator State = iota
	// StateFresh 协调者新鲜
	StateFresh
	// StateStale 协调者已过期
	StateStale
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateNoCoordinator:
		return "no-coordinator"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Coordinators - 协调者表
// ============================================================================

// Coordinators 角色路径 → 协调者，并发安全
type Coordinators struct {
	mu sync.RWMutex
	m  map[types.RolePath]Coordinator
}

// NewCoordinators 创建空协调者表
func NewCoordinators() *Coordinators {
	return &Coordinators{m: make(map[types.RolePath]Coordinator)}
}

// Get 返回角色的协调者
func (c *Coordinators) Get(role types.RolePath) (Coordinator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	co, ok := c.m[role]
	return co, ok
}

// Snapshot 返回协调者表的副本
func (c *Coordinators) Snapshot() map[types.RolePath]Coordinator {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[types.RolePath]Coordinator, len(c.m))
	for role, co := range c.m {
		out[role] = co
	}
	return out
}

// Len 返回有协调者的角色数
func (c *Coordinators) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.m)
}

// State 返回角色在 now 时刻的状态
func (c *Coordinators) State(role types.RolePath, now time.Time, timeout time.Duration) State {
	co, ok := c.Get(role)
	switch {
	case !ok:
		return StateNoCoordinator
	case co.IsStale(now, timeout):
		return StateStale
	default:
		return StateFresh
	}
}

// Touch 若角色当前协调者为 nodeID，则把新鲜度更新为 now
//
// 返回是否刷新。
func (c *Coordinators) Touch(role types.RolePath, nodeID types.NodeID, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	co, ok := c.m[role]
	if !ok || co.NodeID != nodeID {
		return false
	}
	if now.After(co.Freshness) {
		co.Freshness = now
		c.m[role] = co
	}
	return true
}

// ReplaceIfStale 角色无协调者或已过期时安装 next
//
// 在写锁下重新检查，协调者在此期间被刷新则不覆盖。
func (c *Coordinators) ReplaceIfStale(role types.RolePath, next Coordinator, now time.Time, timeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.m[role]; ok && !cur.IsStale(now, timeout) {
		return false
	}
	c.m[role] = next
	return true
}

// RemoveIfStale 角色协调者已过期时移除
func (c *Coordinators) RemoveIfStale(role types.RolePath, now time.Time, timeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.m[role]
	if !ok || !cur.IsStale(now, timeout) {
		return false
	}
	delete(c.m, role)
	return true
}
