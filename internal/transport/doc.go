// Package transport 收纳数据报传输实现共享的错误
//
// 实现见子包：
//   - udp: 基于 net.UDPConn 的数据报传输
//   - mem: 进程内数据报网络，用于测试和单进程演示
//
// 两者都实现 interfaces.Transport。
package transport
