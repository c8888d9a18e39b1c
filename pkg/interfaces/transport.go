package interfaces

import "context"

// Transport 数据报传输协作方
//
// 地址使用文本形式（"ip:port" 或等价形式）。实现需保证 Send/Receive
// 可以被不同 goroutine 并发调用，且自身带有超时或错误语义，
// 不会无限期阻塞调用方。
type Transport interface {
	// Send 发送一个数据报到 addr，ctx 的截止时间作为发送超时
	Send(ctx context.Context, payload []byte, addr string) error

	// Receive 阻塞直到收到一个数据报，返回负载和来源地址
	//
	// Close 之后返回错误。
	Receive(ctx context.Context) (payload []byte, from string, err error)

	// LocalAddr 返回本地监听地址
	LocalAddr() string

	// Close 关闭传输并唤醒阻塞中的 Receive
	Close() error
}
