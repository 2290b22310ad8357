package repository

import (
	"context"

	"gorm.io/gorm"

	"neuvera-go/internal/model"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建一个基于 GORM 的 EventRepository。
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.TrackingEvent) error {
	return translateGormError(r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepository) FindRecent(ctx context.Context, limit int) ([]model.TrackingEvent, error) {
	events := make([]model.TrackingEvent, 0)
	err := r.db.WithContext(ctx).Order(orderNewestFirst).Limit(limit).Find(&events).Error
	return events, err
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TrackingEvent{}).Count(&total).Error
	return total, err
}

// NewGormStore 用同一个 *gorm.DB 组装全部仓库。
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:  NewUserRepository(db),
		Chats:  NewChatRepository(db),
		Events: NewEventRepository(db),
	}
}

// AutoMigrate 创建或更新 users、chats、tracking_events 三张表。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.ChatMessage{}, &model.TrackingEvent{})
}
