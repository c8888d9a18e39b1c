// Package routing 实现候选端点评分与按角色组织的路由表
//
// # 端点评分
//
// Endpoint 的分数由可插拔的 ScoringStrategy 维护，调用方不关心具体策略：
//   - event-driven: ReportSuccess 加分，ReportFailure 扣分（下限 0），Refresh 不变
//   - periodic-jitter: 同样响应成功/失败事件，Refresh 重算为层级基础分 ± 抖动
//
// 分数永远不小于 0。
//
// # 路由表
//
// RouteTable 维护 角色路径 → 候选端点列表：
//   - AddCandidate 追加（自动创建角色）
//   - ListCandidates 返回原始插入顺序的副本
//   - BestCandidates 返回按分数降序、同分保持插入顺序的副本
//
// 所有修改在写锁下完成，读者只拿到副本，不会看到半更新的列表。
//
// # 淘汰
//
// 默认不淘汰，条目只增不减。配置 MaxEndpoints 后按 (角色, 节点, 地址)
// 维护 LRU：添加与成功上报会刷新新近度，超过上限时移除最久未触达的条目。
package routing
