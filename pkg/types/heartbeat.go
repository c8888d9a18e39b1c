package types

// Heartbeat 心跳消息
//
// 只在单次 tick / 单条消息处理周期内存在，从不持久化。
// 线上字段名与历史 JSON 负载保持一致。
type Heartbeat struct {
	SenderID NodeID   `json:"node_id" cbor:"node_id"`
	RolePath RolePath `json:"role_path" cbor:"role_path"`
}
