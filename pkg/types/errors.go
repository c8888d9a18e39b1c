package types

import "errors"

var (
	// ErrEmptyNodeID 节点 ID 为空
	ErrEmptyNodeID = errors.New("types: empty node id")

	// ErrEmptyRolePath 角色路径为空
	ErrEmptyRolePath = errors.New("types: empty role path")

	// ErrEmptyFullPath 完整路径为空
	ErrEmptyFullPath = errors.New("types: empty full path")

	// ErrUnknownEndpointKind 未知端点类型
	ErrUnknownEndpointKind = errors.New("types: unknown endpoint kind")
)
