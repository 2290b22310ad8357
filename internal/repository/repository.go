// Package repository 定义了与数据库进行数据交换的接口和实现。
//
// 同一组接口有 GORM(MySQL)、MongoDB 两种实现，memory 子包提供测试用的内存实现。
package repository

import (
	"context"
	"errors"
	"time"

	"neuvera-go/internal/model"
)

var (
	// ErrNotFound 表示按条件查找的记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 表示写入违反了唯一约束。
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByToken(ctx context.Context, token string) (*model.User, error)
	UpdateToken(ctx context.Context, userID, token string) error
	// UpsertByEmail 按 email 匹配，存在则覆盖资料、密码与 token，不存在则插入。
	UpsertByEmail(ctx context.Context, user *model.User) error
	Count(ctx context.Context) (int64, error)
}

// ChatRepository 定义了聊天记录的操作接口。聊天记录只追加不修改。
type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// FindByUser 返回某用户最新的 limit 条记录，按时间倒序。
	FindByUser(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	// FindRecent 返回全体用户最新的 limit 条记录，按时间倒序。
	FindRecent(ctx context.Context, limit int) ([]model.ChatMessage, error)
	Count(ctx context.Context) (int64, error)
}

// EventRepository 定义了埋点事件的操作接口。
type EventRepository interface {
	Create(ctx context.Context, event *model.TrackingEvent) error
	FindRecent(ctx context.Context, limit int) ([]model.TrackingEvent, error)
	Count(ctx context.Context) (int64, error)
}

// TokenBlacklist 记录已注销 token 的 jti，直到 token 自然过期。
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Store 聚合了所有实体仓库，由启动代码按 database.driver 组装。
type Store struct {
	Users  UserRepository
	Chats  ChatRepository
	Events EventRepository
}
