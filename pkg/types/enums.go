package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              EndpointKind - 端点可达性层级
// ============================================================================

// EndpointKind 端点类型，决定基础评分层级
type EndpointKind int

const (
	// EndpointPublic 公网可达
	EndpointPublic EndpointKind = iota
	// EndpointPrivate 内网可达
	EndpointPrivate
	// EndpointTunnel 隧道/中继可达
	EndpointTunnel
)

// String 返回端点类型的字符串表示
func (k EndpointKind) String() string {
	switch k {
	case EndpointPublic:
		return "public"
	case EndpointPrivate:
		return "private"
	case EndpointTunnel:
		return "tunnel"
	default:
		return "unknown"
	}
}

// IsValid 是否为已知类型
func (k EndpointKind) IsValid() bool {
	return k >= EndpointPublic && k <= EndpointTunnel
}

// ParseEndpointKind 从配置字符串解析端点类型
func ParseEndpointKind(s string) (EndpointKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return EndpointPublic, nil
	case "private":
		return EndpointPrivate, nil
	case "tunnel":
		return EndpointTunnel, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEndpointKind, s)
	}
}
