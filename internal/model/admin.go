package model

import "time"

// Activity 类型
const (
	ActivityChat  = "chat"
	ActivityEvent = "event"
)

// ActivityItem 是管理后台最近动态中的一条。
type ActivityItem struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	UserID    string            `json:"user_id,omitempty"`
	Data      map[string]string `json:"data"`
}

// AdminStats 是管理后台统计接口的响应。
type AdminStats struct {
	TotalUsers     int64          `json:"total_users"`
	TotalChats     int64          `json:"total_chats"`
	TotalEvents    int64          `json:"total_events"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}
