// Package node 组合路由表、选举引擎与心跳追踪器，驱动两个并发循环
//
//	tick 循环   每个 TickInterval：Refresh → 选举 → 发送心跳（启动时立即执行一次）
//	入站循环    transport.Receive → HandleDatagram，逐条处理
//
// 共享状态只有路由表与协调者表，各自由读写锁保护；网络调用期间不持锁。
// 单个角色或单条消息的失败从不终止循环。
package node
