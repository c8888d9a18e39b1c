// Package metrics 提供选举与心跳的 Prometheus 指标以及本地 HTTP 暴露服务
//
// 指标注册在私有 Registry 上，不污染全局默认注册表：
//
//	virgo_elections_total{result}           每个角色每次选举的结果
//	virgo_coordinator_changes_total         协调者变更次数
//	virgo_heartbeats_sent_total{result}     心跳发送结果
//	virgo_heartbeats_received_total{result} 心跳接收处理结果
//	virgo_route_candidates                  路由表候选端点数
//	virgo_coordinators                      当前有协调者的角色数
//
// *Metrics 的方法对 nil 接收者安全，未启用指标的组件直接传 nil。
//
// Server 在本地地址上暴露：
//
//	<path>          Prometheus 抓取端点（默认 /metrics）
//	/health         健康检查
//	/debug/status   节点状态 JSON（需要 StatusProvider）
package metrics
