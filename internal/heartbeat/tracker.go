package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

var log = logger.Logger("heartbeat")

// 默认发送参数
const (
	DefaultSendTimeout        = 2 * time.Second
	DefaultMaxConcurrentSends = 16
)

// EndpointReporter 接收发送结果的端点评分方（通常是 *routing.RouteTable）
type EndpointReporter interface {
	ReportSuccess(role types.RolePath, nodeID types.NodeID, addr string) bool
	ReportFailure(role types.RolePath, nodeID types.NodeID, addr string) bool
}

// Result 入站数据报的处理结果
type Result int

const (
	// ResultRefreshed 刷新了协调者新鲜度
	ResultRefreshed Result = iota
	// ResultIgnored 解码成功但不满足刷新条件
	ResultIgnored
	// ResultMalformed 解码失败，已丢弃
	ResultMalformed
)

// String 返回结果的字符串表示（同时用作指标标签）
func (r Result) String() string {
	switch r {
	case ResultRefreshed:
		return metrics.ResultRefreshed
	case ResultIgnored:
		return metrics.ResultIgnored
	case ResultMalformed:
		return metrics.ResultMalformed
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Tracker - 存活追踪
// ============================================================================

// Tracker 心跳发送与接收
type Tracker struct {
	node         types.Node
	coordinators *election.Coordinators
	reporter     EndpointReporter
	transport    interfaces.Transport
	codec        interfaces.HeartbeatCodec

	clock         clock.Clock
	sendTimeout   time.Duration
	maxConcurrent int
	metrics       *metrics.Metrics
}

// Option 追踪器选项
type Option func(*Tracker)

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithSendTimeout 指定单次发送超时
func WithSendTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.sendTimeout = d
		}
	}
}

// WithMaxConcurrentSends 指定并发发送上限
func WithMaxConcurrentSends(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxConcurrent = n
		}
	}
}

// WithReporter 指定发送结果的接收方
func WithReporter(r EndpointReporter) Option {
	return func(t *Tracker) {
		t.reporter = r
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// NewTracker 创建追踪器
func NewTracker(node types.Node, coordinators *election.Coordinators, tr interfaces.Transport, codec interfaces.HeartbeatCodec, opts ...Option) *Tracker {
	t := &Tracker{
		node:          node,
		coordinators:  coordinators,
		transport:     tr,
		codec:         codec,
		clock:         clock.New(),
		sendTimeout:   DefaultSendTimeout,
		maxConcurrent: DefaultMaxConcurrentSends,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// target 一次心跳发送
type target struct {
	role        types.RolePath
	coordinator election.Coordinator
}

// SendAll 向本地节点每个角色的当前协调者发送心跳
//
// 返回成功发送数与本轮所有发送错误的合并。错误不致命，
// 一个目标失败不影响其他目标。
func (t *Tracker) SendAll(ctx context.Context) (int, error) {
	snapshot := t.coordinators.Snapshot()

	var targets []target
	for _, role := range t.node.Roles() {
		if co, ok := snapshot[role]; ok {
			targets = append(targets, target{role: role, coordinator: co})
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	var (
		mu   sync.Mutex
		sent int
		errs error
	)

	g := new(errgroup.Group)
	g.SetLimit(t.maxConcurrent)
	for _, tg := range targets {
		tg := tg
		g.Go(func() error {
			err := t.send(ctx, tg)

			mu.Lock()
			if err != nil {
				errs = multierr.Append(errs, err)
			} else {
				sent++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return sent, errs
}

func (t *Tracker) send(ctx context.Context, tg target) error {
	addr := tg.coordinator.Endpoint.Addr
	hb := types.Heartbeat{SenderID: t.node.ID, RolePath: tg.role}

	payload, err := t.codec.Encode(hb)
	if err != nil {
		t.metrics.ObserveHeartbeatSent(err)
		return fmt.Errorf("encode heartbeat for %s: %w", tg.role, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, t.sendTimeout)
	err = t.transport.Send(sendCtx, payload, addr)
	cancel()

	t.metrics.ObserveHeartbeatSent(err)
	if err != nil {
		log.Warn("发送心跳失败",
			"role", tg.role,
			"coordinator", tg.coordinator.NodeID,
			"addr", addr,
			"error", err)
		if t.reporter != nil {
			t.reporter.ReportFailure(tg.role, tg.coordinator.NodeID, addr)
		}
		return &SendError{Role: tg.role, Addr: addr, Err: err}
	}

	if t.reporter != nil {
		t.reporter.ReportSuccess(tg.role, tg.coordinator.NodeID, addr)
	}
	log.Debug("心跳已发送", "role", tg.role, "coordinator", tg.coordinator.NodeID, "addr", addr)
	return nil
}

// HandleDatagram 处理一个入站数据报
func (t *Tracker) HandleDatagram(payload []byte, from string) Result {
	r := t.handle(payload, from)
	t.metrics.ObserveHeartbeatReceived(r.String())
	return r
}

func (t *Tracker) handle(payload []byte, from string) Result {
	hb, err := t.codec.Decode(payload)
	if err != nil {
		log.Debug("丢弃畸形心跳", "from", from, "size", len(payload), "error", err)
		return ResultMalformed
	}

	co, ok := t.coordinators.Get(hb.RolePath)
	if !ok || co.NodeID != t.node.ID || hb.SenderID != co.NodeID {
		log.Debug("忽略心跳",
			"from", from,
			"sender", hb.SenderID,
			"role", hb.RolePath)
		return ResultIgnored
	}

	if !t.coordinators.Touch(hb.RolePath, hb.SenderID, t.clock.Now()) {
		// 协调者在检查之后被替换
		return ResultIgnored
	}
	log.Debug("协调者新鲜度已刷新", "role", hb.RolePath, "coordinator", hb.SenderID)
	return ResultRefreshed
}
