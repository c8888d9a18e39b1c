// Package heartbeat 实现协调者心跳的编解码与存活追踪
//
// # 发送
//
// 每个 tick 在选举之后执行：对本地节点持有的每个已有协调者的角色，
// 向协调者端点发送 Heartbeat{本节点, 角色}。发送并发执行，单次发送有超时；
// 失败只记录日志并降低该端点分数，不影响其他角色。
//
// # 接收
//
// 入站数据报解码失败直接丢弃。解码成功时，当且仅当本地节点就是该角色
// 记录的协调者，且发送者等于该协调者的节点 ID，才刷新协调者新鲜度。
// 其他成员的心跳不刷新。
//
// # 编解码
//
//	json   默认，字段 node_id / role_path，与历史负载兼容
//	cbor   规范编码（fxamacker/cbor）
//	proto  google.protobuf.Struct
package heartbeat
