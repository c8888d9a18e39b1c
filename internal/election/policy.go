package election

import (
	"fmt"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/pkg/types"
)

// ============================================================================
//                              资格策略
// ============================================================================

// EligibilityPolicy 判定候选端点能否成为角色协调者
//
// 必须同步且无副作用。coordinators 是调用时的协调者表快照。
type EligibilityPolicy interface {
	Eligible(ep routing.Endpoint, role types.RolePath, coordinators map[types.RolePath]Coordinator) bool
}

// PolicyFunc 函数形式的资格策略
type PolicyFunc func(ep routing.Endpoint, role types.RolePath, coordinators map[types.RolePath]Coordinator) bool

// Eligible 实现 EligibilityPolicy
func (f PolicyFunc) Eligible(ep routing.Endpoint, role types.RolePath, coordinators map[types.RolePath]Coordinator) bool {
	return f(ep, role, coordinators)
}

// PermissivePolicy 所有候选均有资格
type PermissivePolicy struct{}

// Eligible 实现 EligibilityPolicy
func (PermissivePolicy) Eligible(routing.Endpoint, types.RolePath, map[types.RolePath]Coordinator) bool {
	return true
}

// MembershipPolicy 成员或子角色协调者才有资格
//
// 未配置的角色视为放行。
type MembershipPolicy struct {
	members  map[types.RolePath]map[types.NodeID]struct{}
	children map[types.RolePath][]types.RolePath
}

// NewMembershipPolicy 从角色成员配置创建策略
func NewMembershipPolicy(roles []config.RoleMembershipConfig) *MembershipPolicy {
	p := &MembershipPolicy{
		members:  make(map[types.RolePath]map[types.NodeID]struct{}, len(roles)),
		children: make(map[types.RolePath][]types.RolePath, len(roles)),
	}
	for _, r := range roles {
		role := types.RolePath(r.Role)
		set, ok := p.members[role]
		if !ok {
			set = make(map[types.NodeID]struct{}, len(r.Members))
			p.members[role] = set
		}
		for _, m := range r.Members {
			set[types.NodeID(m)] = struct{}{}
		}
		for _, child := range r.Children {
			p.children[role] = append(p.children[role], types.RolePath(child))
		}
	}
	return p
}

// Eligible 实现 EligibilityPolicy
func (p *MembershipPolicy) Eligible(ep routing.Endpoint, role types.RolePath, coordinators map[types.RolePath]Coordinator) bool {
	members, configured := p.members[role]
	if !configured {
		return true
	}
	if _, ok := members[ep.NodeID]; ok {
		return true
	}
	for _, child := range p.children[role] {
		if co, ok := coordinators[child]; ok && co.NodeID == ep.NodeID {
			return true
		}
	}
	return false
}

// AllOf 组合策略：全部通过才有资格
func AllOf(policies ...EligibilityPolicy) EligibilityPolicy {
	return PolicyFunc(func(ep routing.Endpoint, role types.RolePath, coordinators map[types.RolePath]Coordinator) bool {
		for _, p := range policies {
			if !p.Eligible(ep, role, coordinators) {
				return false
			}
		}
		return true
	})
}

// NewPolicy 按选举配置创建资格策略
func NewPolicy(cfg config.ElectionConfig) (EligibilityPolicy, error) {
	switch cfg.Policy {
	case config.PolicyPermissive:
		return PermissivePolicy{}, nil
	case config.PolicyMembership:
		return NewMembershipPolicy(cfg.Roles), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, cfg.Policy)
	}
}

var (
	_ EligibilityPolicy = PermissivePolicy{}
	_ EligibilityPolicy = (*MembershipPolicy)(nil)
	_ EligibilityPolicy = PolicyFunc(nil)
)
