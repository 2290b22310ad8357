package repository

import (
	"context"

	"gorm.io/gorm"

	"neuvera-go/internal/model"
)

const orderNewestFirst = "`timestamp` DESC"

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建一个基于 GORM 的 ChatRepository。
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return translateGormError(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *chatRepository) FindByUser(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	msgs := make([]model.ChatMessage, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(orderNewestFirst).
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) FindRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	msgs := make([]model.ChatMessage, 0)
	err := r.db.WithContext(ctx).Order(orderNewestFirst).Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).Count(&total).Error
	return total, err
}
