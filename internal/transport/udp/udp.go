// Package udp 实现基于 UDP 的数据报传输
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dep2p/go-virgo/internal/transport"
	"github.com/dep2p/go-virgo/internal/util/logger"
	"github.com/dep2p/go-virgo/pkg/interfaces"
)

var log = logger.Logger("transport/udp")

// DefaultReadBufferSize 默认读缓冲
const DefaultReadBufferSize = 1024

// Transport UDP 数据报传输
type Transport struct {
	conn    *net.UDPConn
	bufSize int

	// readMu 串行化 Receive，共享读缓冲
	readMu sync.Mutex
	buf    []byte

	closeOnce sync.Once
	closed    chan struct{}
}

var _ interfaces.Transport = (*Transport)(nil)

// Listen 在 addr 上监听 UDP
//
// bufSize <= 0 时使用 DefaultReadBufferSize，上限 transport.MaxDatagramSize。
func Listen(addr string, bufSize int) (*Transport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve listen addr %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %q: %w", addr, err)
	}

	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}
	if bufSize > transport.MaxDatagramSize {
		bufSize = transport.MaxDatagramSize
	}

	t := &Transport{
		conn:    conn,
		bufSize: bufSize,
		buf:     make([]byte, bufSize),
		closed:  make(chan struct{}),
	}
	log.Info("UDP 传输已监听", "addr", t.LocalAddr())
	return t, nil
}

// Send 向 addr 发送一个数据报
//
// ctx 的截止时间作为写超时。
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

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", transport.ErrUnreachable, addr, err)
	}

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	// 并发写共享一个连接，截止时间按最近一次设置生效
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return t.wrapErr(err)
	}

	if _, err := t.conn.WriteToUDP(payload, raddr); err != nil {
		return t.wrapErr(err)
	}
	return nil
}

// Receive 阻塞读取下一个数据报
//
// ctx 取消时返回 ctx.Err()；关闭后返回 transport.ErrClosed。
// 超过读缓冲的数据报被截断。
func (t *Transport) Receive(ctx context.Context) ([]byte, string, error) {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	if t.isClosed() {
		return nil, "", transport.ErrClosed
	}

	if err := t.conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, "", t.wrapErr(err)
	}
	stop := context.AfterFunc(ctx, func() {
		// 唤醒阻塞中的读取
		_ = t.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	n, from, err := t.conn.ReadFromUDP(t.buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		return nil, "", t.wrapErr(err)
	}

	payload := make([]byte, n)
	copy(payload, t.buf[:n])
	return payload, from.String(), nil
}

// LocalAddr 返回实际监听地址
func (t *Transport) LocalAddr() string {
	return t.conn.LocalAddr().String()
}

// Close 关闭传输，阻塞中的 Receive 返回 transport.ErrClosed
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		err = t.conn.Close()
		log.Debug("UDP 传输已关闭", "addr", t.conn.LocalAddr().String())
	})
	return err
}

func (t *Transport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

func (t *Transport) wrapErr(err error) error {
	if t.isClosed() || errors.Is(err, net.ErrClosed) {
		return transport.ErrClosed
	}
	return err
}
