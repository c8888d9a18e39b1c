package node

import (
	"time"

	"github.com/dep2p/go-virgo/pkg/types"
)

// Status 节点状态快照（/debug/status）
type Status struct {
	NodeID          types.NodeID `json:"node_id"`
	Addr            string       `json:"addr"`
	RouteCandidates int          `json:"route_candidates"`
	Roles           []RoleStatus `json:"roles"`
}

// RoleStatus 单个角色的状态
type RoleStatus struct {
	Role        types.RolePath `json:"role"`
	State       string         `json:"state"`
	Coordinator types.NodeID   `json:"coordinator,omitempty"`
	Addr        string         `json:"addr,omitempty"`
	Age         string         `json:"age,omitempty"`
}

// Snapshot 返回节点状态快照
func (n *Node) Snapshot() Status {
	now := n.clock.Now()
	st := Status{
		NodeID:          n.self.ID,
		Addr:            n.transport.LocalAddr(),
		RouteCandidates: n.table.Size(),
	}
	for _, role := range n.self.Roles() {
		rs := RoleStatus{Role: role, State: n.engine.State(role).String()}
		if co, ok := n.Coordinator(role); ok {
			rs.Coordinator = co.NodeID
			rs.Addr = co.Endpoint.Addr
			rs.Age = now.Sub(co.Freshness).Truncate(time.Millisecond).String()
		}
		st.Roles = append(st.Roles, rs)
	}
	return st
}

// Status 实现 metrics.StatusProvider
func (n *Node) Status() any {
	return n.Snapshot()
}
