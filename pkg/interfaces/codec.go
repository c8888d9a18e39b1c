package interfaces

import "github.com/dep2p/go-virgo/pkg/types"

// HeartbeatCodec 心跳消息编解码协作方
//
// 契约：两个字段往返保真；畸形输入返回错误（由调用方丢弃，不致命）。
type HeartbeatCodec interface {
	// Name 编解码器名称（json/cbor/proto）
	Name() string

	// Encode 编码心跳
	Encode(hb types.Heartbeat) ([]byte, error)

	// Decode 解码心跳
	Decode(data []byte) (types.Heartbeat, error)
}
