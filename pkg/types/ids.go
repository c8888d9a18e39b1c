package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeID 节点标识（不透明字符串）
type NodeID string

// String 返回字符串表示
func (id NodeID) String() string { return string(id) }

// IsEmpty 是否为空
func (id NodeID) IsEmpty() bool { return id == "" }

// ============================================================================
//                              RolePath - 角色路径
// ============================================================================

// RolePath 角色路径，作为精确匹配的键使用
type RolePath string

// String 返回字符串表示
func (p RolePath) String() string { return string(p) }

// ============================================================================
//                              FullPath - 完整路径
// ============================================================================

// FullPathSeparator 完整路径中层级路径与节点名的分隔符
const FullPathSeparator = "::"

// FullPath 节点的完整点分身份，如 "all.science.cs.ai.001::claerk"
type FullPath string

// String 返回字符串表示
func (p FullPath) String() string { return string(p) }

// Split 拆分出层级路径和节点名
//
// 没有 "::" 后缀时 name 为空。
func (p FullPath) Split() (hierarchy string, name string) {
	hierarchy, name, _ = strings.Cut(string(p), FullPathSeparator)
	return hierarchy, name
}

// ============================================================================
//                              CanonicalIdentity - 规范身份
// ============================================================================

// CanonicalIdentity 规范身份：完整路径 + 其映射的角色路径
type CanonicalIdentity struct {
	FullPath FullPath `json:"full_path" mapstructure:"full_path"`
	RolePath RolePath `json:"role_path" mapstructure:"role_path"`
}

// Validate 校验规范身份
func (c CanonicalIdentity) Validate() error {
	if c.FullPath == "" {
		return ErrEmptyFullPath
	}
	if c.RolePath == "" {
		return fmt.Errorf("%w (full path %q)", ErrEmptyRolePath, c.FullPath)
	}
	return nil
}

// ============================================================================
//                              Node - 本地节点
// ============================================================================

// Node 本地节点身份：ID + 一组规范身份
type Node struct {
	ID         NodeID
	Identities []CanonicalIdentity
}

// Roles 返回节点持有的角色路径，按身份顺序去重
func (n Node) Roles() []RolePath {
	roles := make([]RolePath, 0, len(n.Identities))
	seen := make(map[RolePath]struct{}, len(n.Identities))
	for _, ident := range n.Identities {
		if _, ok := seen[ident.RolePath]; ok {
			continue
		}
		seen[ident.RolePath] = struct{}{}
		roles = append(roles, ident.RolePath)
	}
	return roles
}

// HoldsRole 节点是否持有指定角色
func (n Node) HoldsRole(role RolePath) bool {
	for _, ident := range n.Identities {
		if ident.RolePath == role {
			return true
		}
	}
	return false
}

// Validate 校验节点身份
func (n Node) Validate() error {
	if n.ID.IsEmpty() {
		return ErrEmptyNodeID
	}
	for _, ident := range n.Identities {
		if err := ident.Validate(); err != nil {
			return err
		}
	}
	return nil
}
