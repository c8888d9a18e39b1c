package heartbeat

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dep2p/go-virgo/config"
	"github.com/dep2p/go-virgo/pkg/interfaces"
	"github.com/dep2p/go-virgo/pkg/types"
)

// 线上字段名
const (
	fieldNodeID   = "node_id"
	fieldRolePath = "role_path"
)

// NewCodec 按名称创建编解码器
func NewCodec(name string) (interfaces.HeartbeatCodec, error) {
	switch name {
	case config.CodecJSON:
		return JSONCodec{}, nil
	case config.CodecCBOR:
		return NewCBORCodec()
	case config.CodecProto:
		return NewProtoCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// validate 检查解码后的心跳字段
func validate(hb types.Heartbeat) (types.Heartbeat, error) {
	if hb.SenderID.IsEmpty() {
		return types.Heartbeat{}, fmt.Errorf("%w: missing %s", ErrMalformed, fieldNodeID)
	}
	if hb.RolePath == "" {
		return types.Heartbeat{}, fmt.Errorf("%w: missing %s", ErrMalformed, fieldRolePath)
	}
	return hb, nil
}

// ============================================================================
//                              JSON
// ============================================================================

// JSONCodec JSON 编解码器
type JSONCodec struct{}

// Name 编解码器名称
func (JSONCodec) Name() string { return config.CodecJSON }

// Encode 编码心跳
func (JSONCodec) Encode(hb types.Heartbeat) ([]byte, error) {
	return json.Marshal(hb)
}

// Decode 解码心跳
func (JSONCodec) Decode(data []byte) (types.Heartbeat, error) {
	if len(data) == 0 {
		return types.Heartbeat{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	var hb types.Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return types.Heartbeat{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return validate(hb)
}

// ============================================================================
//                              CBOR
// ============================================================================

// CBORCodec 规范 CBOR 编解码器
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec 创建 CBOR 编解码器
func NewCBORCodec() (*CBORCodec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORCodec{enc: em, dec: dm}, nil
}

// Name 编解码器名称
func (*CBORCodec) Name() string { return config.CodecCBOR }

// Encode 编码心跳
func (c *CBORCodec) Encode(hb types.Heartbeat) ([]byte, error) {
	return c.enc.Marshal(hb)
}

// Decode 解码心跳
func (c *CBORCodec) Decode(data []byte) (types.Heartbeat, error) {
	if len(data) == 0 {
		return types.Heartbeat{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	var hb types.Heartbeat
	if err := c.dec.Unmarshal(data, &hb); err != nil {
		return types.Heartbeat{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return validate(hb)
}

// ============================================================================
//                              Proto
// ============================================================================

// ProtoCodec 以 google.protobuf.Struct 承载心跳的编解码器
type ProtoCodec struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

// NewProtoCodec 创建确定性编码的 Proto 编解码器
func NewProtoCodec() *ProtoCodec {
	return &ProtoCodec{
		mo: proto.MarshalOptions{Deterministic: true},
		uo: proto.UnmarshalOptions{},
	}
}

// Name 编解码器名称
func (*ProtoCodec) Name() string { return config.CodecProto }

// Encode 编码心跳
func (p *ProtoCodec) Encode(hb types.Heartbeat) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		fieldNodeID:   hb.SenderID.String(),
		fieldRolePath: hb.RolePath.String(),
	})
	if err != nil {
		return nil, err
	}
	return p.mo.Marshal(msg)
}

// Decode 解码心跳
func (p *ProtoCodec) Decode(data []byte) (types.Heartbeat, error) {
	if len(data) == 0 {
		return types.Heartbeat{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	var msg structpb.Struct
	if err := p.uo.Unmarshal(data, &msg); err != nil {
		return types.Heartbeat{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	fields := msg.GetFields()
	return validate(types.Heartbeat{
		SenderID: types.NodeID(fields[fieldNodeID].GetStringValue()),
		RolePath: types.RolePath(fields[fieldRolePath].GetStringValue()),
	})
}

var (
	_ interfaces.HeartbeatCodec = JSONCodec{}
	_ interfaces.HeartbeatCodec = (*CBORCodec)(nil)
	_ interfaces.HeartbeatCodec = (*ProtoCodec)(nil)
)
