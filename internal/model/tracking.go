package model

import "time"

// TrackingEvent 对应于 tracking_events 集合/表。
// IPAddress 在存储中始终是 SHA-256 摘要，从不保存原始地址。
type TrackingEvent struct {
	ID        string                 `gorm:"type:varchar(64);primaryKey" bson:"id" json:"id"`
	UserID    *string                `gorm:"type:varchar(64);index" bson:"user_id" json:"user_id"`
	EventType string                 `gorm:"type:varchar(100);not null" bson:"event_type" json:"event_type"`
	PageURL   string                 `gorm:"type:text" bson:"page_url" json:"page_url"`
	UserAgent string                 `gorm:"type:text" bson:"user_agent" json:"user_agent"`
	IPAddress string                 `gorm:"type:char(64);not null" bson:"ip_address" json:"ip_address"`
	Timestamp time.Time              `gorm:"index;not null" bson:"timestamp" json:"timestamp"`
	Metadata  map[string]interface{} `gorm:"serializer:json;type:json" bson:"metadata" json:"metadata"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (TrackingEvent) TableName() string {
	return "tracking_events"
}

// TrackingRequest 是埋点上报的请求体。ip_address 缺省时由服务端取客户端地址。
type TrackingRequest struct {
	EventType string                 `json:"event_type" binding:"required"`
	PageURL   string                 `json:"page_url" binding:"required"`
	UserAgent string                 `json:"user_agent" binding:"required"`
	IPAddress string                 `json:"ip_address"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// TrackResponse 是埋点上报成功后的响应。
type TrackResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
}
