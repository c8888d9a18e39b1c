// Package interfaces 定义 virgo 核心与外部协作方之间的窄接口
//
//   - transport.go - 数据报传输（发送/接收，不拥有套接字生命周期之外的状态）
//   - codec.go     - 心跳消息编解码
//
// 核心内部的可插拔能力（评分策略、资格策略）定义在各自的 internal 包中。
package interfaces
