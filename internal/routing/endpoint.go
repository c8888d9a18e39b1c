package routing

import (
	"fmt"
	"time"

	"github.com/dep2p/go-virgo/pkg/types"
)

// Endpoint 可达性候选
type Endpoint struct {
	// NodeID 所属节点
	NodeID types.NodeID

	// Addr 网络地址（ip:port）
	Addr string

	// Kind 端点类型
	Kind types.EndpointKind

	// Score 分数，越高越好，永远 >= 0
	Score int

	// LastSuccess 最近一次成功时间，零值表示从未成功
	LastSuccess time.Time

	// LastFailure 最近一次失败时间，零值表示从未失败
	LastFailure time.Time
}

// NewEndpoint 创建端点，分数为策略给出的类型基础分
func NewEndpoint(nodeID types.NodeID, kind types.EndpointKind, addr string, s ScoringStrategy) Endpoint {
	return Endpoint{
		NodeID: nodeID,
		Addr:   addr,
		Kind:   kind,
		Score:  s.BaseScore(kind),
	}
}

// NewEndpointWithScore 创建带显式初始分的端点（种子条目），负分按 0 处理
func NewEndpointWithScore(nodeID types.NodeID, kind types.EndpointKind, addr string, score int) Endpoint {
	return Endpoint{
		NodeID: nodeID,
		Addr:   addr,
		Kind:   kind,
		Score:  clampScore(score),
	}
}

// ReportSuccess 记录一次成功
func (e *Endpoint) ReportSuccess(s ScoringStrategy, now time.Time) {
	e.LastSuccess = now
	e.Score = s.Success(e.Score)
}

// ReportFailure 记录一次失败
func (e *Endpoint) ReportFailure(s ScoringStrategy, now time.Time) {
	e.LastFailure = now
	e.Score = s.Failure(e.Score)
}

// Refresh 周期刷新分数
func (e *Endpoint) Refresh(s ScoringStrategy) {
	e.Score = s.Refresh(e.Kind, e.Score)
}

// Validate 校验端点
func (e Endpoint) Validate() error {
	if e.NodeID.IsEmpty() {
		return fmt.Errorf("%w: empty node id", ErrInvalidEndpoint)
	}
	if e.Addr == "" {
		return fmt.Errorf("%w: empty addr", ErrInvalidEndpoint)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: kind %d", ErrInvalidEndpoint, e.Kind)
	}
	return nil
}

// String 日志用的简短表示
func (e Endpoint) String() string {
	return fmt.Sprintf("%s@%s(%s,%d)", e.NodeID, e.Addr, e.Kind, e.Score)
}
