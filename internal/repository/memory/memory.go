// Package memory 提供 repository 接口的内存实现，供单元测试与本地调试使用。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
)

// NewStore 返回一个空的内存 Store。
func NewStore() *repository.Store {
	return &repository.Store{
		Users:  NewUserRepository(),
		Chats:  NewChatRepository(),
		Events: NewEventRepository(),
	}
}

// UserRepository 是线程安全的内存用户表。
type UserRepository struct {
	mu    sync.RWMutex
	users []model.User
}

// NewUserRepository 创建一个空的内存 UserRepository。
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) indexByEmail(email string) int {
	for i := range r.users {
		if r.users[i].Email == email {
			return i
		}
	}
	return -1
}

// Create 插入用户，邮箱已存在时返回 repository.ErrDuplicate。
func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexByEmail(user.Email) >= 0 {
		return repository.ErrDuplicate
	}
	r.users = append(r.users, *user)
	return nil
}

// FindByEmail 按邮箱精确查找用户。
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexByEmail(email); i >= 0 {
		u := r.users[i]
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

// FindByToken 查找当前 token 等于给定值的用户，空 token 永远查不到。
func (r *UserRepository) FindByToken(_ context.Context, token string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if token != "" && u.Token == token {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpdateToken 替换指定用户保存的 token。
func (r *UserRepository) UpdateToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == userID {
			r.users[i].Token = token
			return nil
		}
	}
	return repository.ErrNotFound
}

// UpsertByEmail 按邮箱覆盖 id、资料、密码与 token，不存在时插入。
func (r *UserRepository) UpsertByEmail(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexByEmail(user.Email)
	if i < 0 {
		r.users = append(r.users, *user)
		return nil
	}
	existing := &r.users[i]
	existing.ID = user.ID
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.IsAdmin = user.IsAdmin
	existing.Token = user.Token
	existing.Password = user.Password
	return nil
}

// Count 返回用户总数。
func (r *UserRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// ChatRepository 是线程安全的内存聊天表。
type ChatRepository struct {
	mu   sync.RWMutex
	msgs []model.ChatMessage
}

// NewChatRepository 创建一个空的内存 ChatRepository。
func NewChatRepository() *ChatRepository {
	return &ChatRepository{}
}

// Create 追加一条聊天记录。
func (r *ChatRepository) Create(_ context.Context, msg *model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, *msg)
	return nil
}

// FindByUser 返回某个用户最新的 limit 条聊天记录。
func (r *ChatRepository) FindByUser(_ context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newest(r.msgs, limit, func(m model.ChatMessage) bool { return m.UserID == userID },
		func(m model.ChatMessage) time.Time { return m.Timestamp }), nil
}

// FindRecent 返回全部用户中最新的 limit 条聊天记录。
func (r *ChatRepository) FindRecent(_ context.Context, limit int) ([]model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newest(r.msgs, limit, nil, func(m model.ChatMessage) time.Time { return m.Timestamp }), nil
}

// Count 返回聊天记录总数。
func (r *ChatRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.msgs)), nil
}

// EventRepository 是线程安全的内存埋点表。
type EventRepository struct {
	mu     sync.RWMutex
	events []model.TrackingEvent
}

// NewEventRepository 创建一个空的内存 EventRepository。
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Create 追加一条埋点事件。
func (r *EventRepository) Create(_ context.Context, event *model.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// FindRecent 返回最新的 limit 条埋点事件。
func (r *EventRepository) FindRecent(_ context.Context, limit int) ([]model.TrackingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newest(r.events, limit, nil, func(e model.TrackingEvent) time.Time { return e.Timestamp }), nil
}

// Count 返回埋点事件总数。
func (r *EventRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.events)), nil
}

// newest 按时间倒序返回最多 limit 条满足 keep 的记录；时间相同时后写入的排在前面。
func newest[T any](all []T, limit int, keep func(T) bool, ts func(T) time.Time) []T {
	out := make([]T, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if keep == nil || keep(all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ts(out[i]).After(ts(out[j]))
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TokenBlacklist 是内存版的 token 黑名单，过期条目在查询时清理。
type TokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTokenBlacklist 创建一个空的内存黑名单。
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

// Add 将 jti 加入黑名单，ttl 小于等于 0 时忽略。
func (b *TokenBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = b.now().Add(ttl)
	return nil
}

// Contains 判断 jti 是否仍在黑名单中。
func (b *TokenBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(exp) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}
