package model

import "time"

// ChatMessage 代表一次问答交互，写入后不再修改。
type ChatMessage struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" bson:"id" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index:idx_chats_user_ts,priority:1;not null" bson:"user_id" json:"user_id"`
	Message   string    `gorm:"type:text;not null" bson:"message" json:"message"`
	Response  string    `gorm:"type:text;not null" bson:"response" json:"response"`
	Timestamp time.Time `gorm:"index:idx_chats_user_ts,priority:2;index;not null" bson:"timestamp" json:"timestamp"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ChatMessage) TableName() string {
	return "chats"
}

// ChatRequest 是发送聊天消息的请求体。
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse 是返回给客户端的聊天记录，不包含 user_id。
type ChatResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ToResponse 转换为对外输出的结构。
func (m ChatMessage) ToResponse() ChatResponse {
	return ChatResponse{
		ID:        m.ID,
		Message:   m.Message,
		Response:  m.Response,
		Timestamp: m.Timestamp,
	}
}
