package node

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-virgo/internal/election"
	"github.com/dep2p/go-virgo/internal/heartbeat"
	"github.com/dep2p/go-virgo/internal/metrics"
	"github.com/dep2p/go-virgo/internal/routing"
	"github.com/dep2p/go-virgo/internal/transport"
	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

var log = logger.Logger("node")

// 默认参数
const (
	DefaultTickInterval = 5 * time.Second

	// receiveBackoff 接收出错后的退避
	receiveBackoff = 100 * time.Millisecond
)

// ErrAlreadyStarted 节点已启动
var ErrAlreadyStarted = errors.New("node: already started")

// TickReport 一次 tick 的结果
type TickReport struct {
	Outcomes []election.Outcome
	Sent     int
	SendErr  error
}

// Node 协调者选举节点
type Node struct {
	self      types.Node
	table     *routing.RouteTable
	engine    *election.Engine
	tracker   *heartbeat.Tracker
	transport interfaces.Transport

	clock    clock.Clock
	interval time.Duration
	metrics  *metrics.Metrics

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option 节点选项
type Option func(*Node)

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(n *Node) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithTickInterval 指定 tick 间隔
func WithTickInterval(d time.Duration) Option {
	return func(n *Node) {
		if d > 0 {
			n.interval = d
		}
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

// New 创建节点
func New(self types.Node, table *routing.RouteTable, engine *election.Engine, tracker *heartbeat.Tracker, tr interfaces.Transport, opts ...Option) *Node {
	n := &Node{
		self:      self,
		table:     table,
		engine:    engine,
		tracker:   tracker,
		transport: tr,
		clock:     clock.New(),
		interval:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID 返回本地节点 ID
func (n *Node) ID() types.NodeID {
	return n.self.ID
}

// Addr 返回传输监听地址
func (n *Node) Addr() string {
	return n.transport.LocalAddr()
}

// RouteTable 返回路由表
func (n *Node) RouteTable() *routing.RouteTable {
	return n.table
}

// Coordinator 返回角色当前的协调者
func (n *Node) Coordinator(role types.RolePath) (election.Coordinator, bool) {
	return n.engine.Coordinators().Get(role)
}

// Start 启动 tick 循环与入站循环
//
// ctx 只约束启动过程；循环在 Stop 之前一直运行。
func (n *Node) Start(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.running {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.running = true

	n.wg.Add(2)
	go n.tickLoop(ctx)
	go n.inboundLoop(ctx)

	log.Info("节点已启动",
		"node", n.self.ID,
		"addr", n.transport.LocalAddr(),
		"roles", len(n.self.Roles()),
		"interval", n.interval)
	return nil
}

// Stop 停止两个循环并关闭传输
//
// 等待循环退出，ctx 到期时返回 ctx.Err()。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return nil
	}
	n.running = false
	n.cancel()
	n.mu.Unlock()

	err := n.transport.Close()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, ctx.Err())
	}

	log.Info("节点已停止", "node", n.self.ID)
	return err
}

// Tick 执行一次完整 tick：刷新评分 → 选举 → 发送心跳
func (n *Node) Tick(ctx context.Context) TickReport {
	n.table.Refresh()

	outcomes := n.engine.Run(ctx)
	sent, err := n.tracker.SendAll(ctx)
	if err != nil {
		log.Debug("部分心跳发送失败", "sent", sent, "error", err)
	}

	n.metrics.SetRouteCandidates(n.table.Size())
	return TickReport{Outcomes: outcomes, Sent: sent, SendErr: err}
}

func (n *Node) tickLoop(ctx context.Context) {
	defer n.wg.Done()

	ticker := n.clock.Ticker(n.interval)
	defer ticker.Stop()

	n.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Tick(ctx)
		}
	}
}

func (n *Node) inboundLoop(ctx context.Context) {
	defer n.wg.Done()

	for {
		payload, from, err := n.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				return
			}
			log.Warn("接收数据报失败", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-n.clock.After(receiveBackoff):
			}
			continue
		}
		n.tracker.HandleDatagram(payload, from)
	}
}
