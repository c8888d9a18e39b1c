package transport

import "errors"

// MaxDatagramSize 单个数据报的最大字节数
const MaxDatagramSize = 64 * 1024

var (
	// ErrClosed 传输已关闭
	ErrClosed = errors.New("transport: closed")

	// ErrUnreachable 目标地址不可达
	ErrUnreachable = errors.New("transport: address unreachable")

	// ErrPayloadTooLarge 数据报超过 MaxDatagramSize
	ErrPayloadTooLarge = errors.New("transport: payload too large")
)
