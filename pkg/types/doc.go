// Package types 定义 virgo 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 virgo 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go    - NodeID, RolePath, FullPath, CanonicalIdentity, Node
//   - enums.go  - EndpointKind
//   - errors.go - 公共错误定义
//
// # 角色路径
//
// RolePath 是层级分类键（如 "cs.ai.001"），只做精确匹配，
// 不提供前缀或层级语义。一个节点可以同时持有多个规范身份，
// 每个身份映射到一个角色路径。
package types
