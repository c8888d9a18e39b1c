// Package election 实现按角色的协调者选举
//
// 每个 tick 对本地节点持有的每个角色执行一次选举：
//
//	无协调者 / 已过期 → 按分数从高到低取第一个满足资格策略的候选
//	                   没有合格候选时角色回到无协调者状态
//	新鲜             → 保持不变，从不抢占
//
// 过期判定：now - freshness > ReelectionTimeout（严格大于）。
//
// 协调者表由选举引擎写入、由心跳追踪器刷新。安装和移除在写锁下
// 重新检查过期状态，因此并发到达的心跳刷新不会被覆盖。
package election
