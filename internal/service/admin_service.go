package service

import (
	"context"
	"fmt"
	"sort"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
)

const (
	recentPerKind   = 10
	recentActivity  = 20
	adminEventLimit = 100
	previewRunes    = 50
)

// AdminService 接口定义了管理后台的统计操作。
type AdminService interface {
	Stats(ctx context.Context) (*model.AdminStats, error)
	Events(ctx context.Context) ([]model.TrackingEvent, error)
}

// adminService 是 AdminService 接口的实现。
type adminService struct {
	store *repository.Store
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(store *repository.Store) AdminService {
	return &adminService{store: store}
}

// Stats 汇总三类记录的数量，并合并最近的聊天与埋点作为动态。
func (s *adminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var (
		stats model.AdminStats
		err   error
	)
	if stats.TotalUsers, err = s.store.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("统计用户失败: %w", err)
	}
	if stats.TotalChats, err = s.store.Chats.Count(ctx); err != nil {
		return nil, fmt.Errorf("统计聊天失败: %w", err)
	}
	if stats.TotalEvents, err = s.store.Events.Count(ctx); err != nil {
		return nil, fmt.Errorf("统计埋点失败: %w", err)
	}

	chats, err := s.store.Chats.FindRecent(ctx, recentPerKind)
	if err != nil {
		return nil, fmt.Errorf("查询最近聊天失败: %w", err)
	}
	events, err := s.store.Events.FindRecent(ctx, recentPerKind)
	if err != nil {
		return nil, fmt.Errorf("查询最近埋点失败: %w", err)
	}

	activity := make([]model.ActivityItem, 0, len(chats)+len(events))
	for _, c := range chats {
		activity = append(activity, model.ActivityItem{
			Type:      model.ActivityChat,
			Timestamp: c.Timestamp,
			UserID:    c.UserID,
			Data:      map[string]string{"message": preview(c.Message)},
		})
	}
	for _, e := range events {
		activity = append(activity, model.ActivityItem{
			Type:      model.ActivityEvent,
			Timestamp: e.Timestamp,
			Data:      map[string]string{"event_type": e.EventType, "page_url": e.PageURL},
		})
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > recentActivity {
		activity = activity[:recentActivity]
	}
	stats.RecentActivity = activity
	return &stats, nil
}

// Events 返回最新的 100 条原始埋点。
func (s *adminService) Events(ctx context.Context) ([]model.TrackingEvent, error) {
	return s.store.Events.FindRecent(ctx, adminEventLimit)
}

// preview 截取前 50 个字符并总是追加 "..."。
func preview(message string) string {
	r := []rune(message)
	if len(r) > previewRunes {
		r = r[:previewRunes]
	}
	return string(r) + "..."
}
