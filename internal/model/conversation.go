package model

// ChatMessage 对话历史里的一条消息，按主题存放在 Redis 列表中。
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
