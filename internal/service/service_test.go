package service

import (
	"context"
	"errors"
	"sync"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
	"neuvera-go/internal/repository/memory"
	"neuvera-go/pkg/llm"
	"neuvera-go/pkg/token"
)

// fakeLLM 记录收到的会话与消息，返回预设回复或错误。
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	sessions []llm.Session
	messages []string
}

func (f *fakeLLM) Send(_ context.Context, session llm.Session, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session)
	f.messages = append(f.messages, message)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []model.TrackingEvent
}

func (p *fakePublisher) PublishTrackingEvent(_ context.Context, e *model.TrackingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

var errStoreDown = errors.New("store down")

type failingEvents struct{ repository.EventRepository }

func (failingEvents) Create(context.Context, *model.TrackingEvent) error { return errStoreDown }

type failingChats struct{ repository.ChatRepository }

func (failingChats) Create(context.Context, *model.ChatMessage) error { return errStoreDown }

type fixture struct {
	store     *repository.Store
	blacklist *memory.TokenBlacklist
	users     UserService
}

func newFixture(admin AdminCredentials) *fixture {
	store := memory.NewStore()
	bl := memory.NewTokenBlacklist()
	return &fixture{
		store:     store,
		blacklist: bl,
		users:     NewUserService(store.Users, bl, token.NewJWTManager("test-secret", 1), admin),
	}
}
