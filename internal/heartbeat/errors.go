package heartbeat

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-virgo/pkg/types"
)

var (
	// ErrMalformed 心跳负载无法解码或缺少字段
	ErrMalformed = errors.New("heartbeat: malformed payload")

	// ErrSend 心跳发送失败（包装传输层错误）
	ErrSend = errors.New("heartbeat: send failed")

	// ErrUnknownCodec 未知编解码器
	ErrUnknownCodec = errors.New("heartbeat: unknown codec")
)

// SendError 单个角色的心跳发送失败
//
// errors.Is(err, ErrSend) 成立，Unwrap 返回传输层错误。
type SendError struct {
	Role types.RolePath
	Addr string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%v: role %s to %s: %v", ErrSend, e.Role, e.Addr, e.Err)
}

// Is 匹配 ErrSend
func (e *SendError) Is(target error) bool {
	return target == ErrSend
}

// Unwrap 返回底层传输错误
func (e *SendError) Unwrap() error {
	return e.Err
}
