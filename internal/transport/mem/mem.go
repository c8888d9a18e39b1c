// Package mem 实现进程内数据报网络
//
// Network 是具名端点的集合。每个端点有一个有缓冲收件箱；
// 收件箱满时丢弃数据报，与 UDP 语义一致。
package mem

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-virgo/internal/transport"
	"github.com/dep2p/go-virgo/pkg/interfaces"
)

// DefaultInboxSize 默认收件箱容量
const DefaultInboxSize = 64

type datagram struct {
	payload []byte
	from    string
}

// Network 进程内数据报网络
type Network struct {
	mu        sync.RWMutex
	endpoints map[string]*Transport
	nextPort  atomic.Uint32
	inboxSize int
}

// NewNetwork 创建网络
func NewNetwork() *Network {
	return &Network{
		endpoints: make(map[string]*Transport),
		inboxSize: DefaultInboxSize,
	}
}

// Listen 在网络上注册地址
//
// addr 为空或以 ":0" 结尾时自动分配 "mem:<n>" 地址。
func (n *Network) Listen(addr string) (*Transport, error) {
	if addr == "" || addr == ":0" || addr == "0.0.0.0:0" {
		addr = fmt.Sprintf("mem:%d", n.nextPort.Add(1))
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.endpoints[addr]; exists {
		return nil, fmt.Errorf("mem: address %q already in use", addr)
	}
	t := &Transport{
		network: n,
		addr:    addr,
		inbox:   make(chan datagram, n.inboxSize),
		closed:  make(chan struct{}),
	}
	n.endpoints[addr] = t
	return t, nil
}

// Addrs 返回已注册地址（已排序）
func (n *Network) Addrs() []string {
	n.mu.RLock()
	addrs := make([]string, 0, len(n.endpoints))
	for addr := range n.endpoints {
		addrs = append(addrs, addr)
	}
	n.mu.RUnlock()

	slices.Sort(addrs)
	return addrs
}

func (n *Network) lookup(addr string) (*Transport, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	t, ok := n.endpoints[addr]
	return t, ok
}

func (n *Network) remove(addr string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.endpoints, addr)
}

// Transport 网络上的一个端点
type Transport struct {
	network *Network
	addr    string
	inbox   chan datagram
	dropped atomic.Uint64

	closeOnce sync.Once
	closed    chan struct{}
}

var _ interfaces.Transport = (*Transport)(nil)

// Send 向 addr 投递一个数据报
//
// 目标收件箱满时静默丢弃。
func (t *Transport) Send(ctx context.Context, payload []byte, addr string) error {
	if t.isClosed() {
		return transport.ErrClosed
	}
	if len(payload) > transport.MaxDatagramSize {
		return transport.ErrPayloadTooLarge
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, ok := t.network.lookup(addr)
	if !ok || dst.isClosed() {
		return fmt.Errorf("%w: %s", transport.ErrUnreachable, addr)
	}

	select {
	case dst.inbox <- datagram{payload: slices.Clone(payload), from: t.addr}:
	default:
		dst.dropped.Add(1)
	}
	return nil
}

// Receive 阻塞读取下一个数据报
func (t *Transport) Receive(ctx context.Context) ([]byte, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case <-t.closed:
		return nil, "", transport.ErrClosed
	case d := <-t.inbox:
		return d.payload, d.from, nil
	}
}

// LocalAddr 返回端点地址
func (t *Transport) LocalAddr() string {
	return t.addr
}

// Dropped 返回因收件箱满被丢弃的数据报数
func (t *Transport) Dropped() uint64 {
	return t.dropped.Load()
}

// Close 关闭端点并从网络注销
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
		t.network.remove(t.addr)
	})
	return nil
}

func (t *Transport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}
