package config

import (
	"fmt"

	"github.com/dep2p/go-virgo/pkg/types"
)

// IdentityConfig 身份配置（引导协作方）
//
// 提供节点 ID 与其持有的规范身份集合。
type IdentityConfig struct {
	// NodeID 节点 ID
	// 为空时启动阶段生成 UUID
	NodeID string `json:"node_id" mapstructure:"node_id"`

	// Identities 规范身份列表（完整路径 + 角色路径）
	Identities []types.CanonicalIdentity `json:"identities" mapstructure:"identities"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	for i, ident := range c.Identities {
		if err := ident.Validate(); err != nil {
			return fmt.Errorf("identity.identities[%d]: %w", i, err)
		}
	}
	return nil
}

// Node 按配置构造本地节点身份，nodeID 为最终确定的 ID
func (c IdentityConfig) Node(nodeID types.NodeID) types.Node {
	identities := make([]types.CanonicalIdentity, len(c.Identities))
	copy(identities, c.Identities)
	return types.Node{ID: nodeID, Identities: identities}
}
