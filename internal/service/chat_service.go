package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
	"neuvera-go/pkg/llm"
	"neuvera-go/pkg/log"
	"neuvera-go/pkg/metrics"
)

// DefaultSystemPrompt 是 Neuvera 助手的人设。
const DefaultSystemPrompt = "You are Neuvera, an advanced AI assistant comparable to Doraemon. You're intelligent, helpful, and capable of handling diverse tasks like academic support, exam preparation, and personalized problem-solving. Always be friendly, knowledgeable, and provide comprehensive assistance."

const historyLimit = 50

// ChatService 定义了聊天中转的业务操作。
type ChatService interface {
	Chat(ctx context.Context, user *model.User, message string) (*model.ChatResponse, error)
	History(ctx context.Context, user *model.User) ([]model.ChatResponse, error)
}

type chatService struct {
	chatRepo     repository.ChatRepository
	llmClient    llm.Client
	systemPrompt string
}

// NewChatService 创建 ChatService。systemPrompt 为空时使用 DefaultSystemPrompt。
func NewChatService(chatRepo repository.ChatRepository, llmClient llm.Client, systemPrompt string) ChatService {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &chatService{
		chatRepo:     chatRepo,
		llmClient:    llmClient,
		systemPrompt: systemPrompt,
	}
}

// Chat 把消息转发给模型，成功后保存问答记录。上游的错误细节只写日志。
func (s *chatService) Chat(ctx context.Context, user *model.User, message string) (*model.ChatResponse, error) {
	session := llm.Session{
		ID:           "user_" + user.ID,
		SystemPrompt: s.systemPrompt,
	}
	reply, err := s.llmClient.Send(ctx, session, message)
	if err != nil {
		metrics.RecordProviderError()
		log.Errorw("chat provider call failed", "userId", user.ID, "error", err)
		return nil, ErrChatUnavailable
	}

	msg := &model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Message:   message,
		Response:  reply,
		Timestamp: time.Now().UTC(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		log.Errorw("failed to store chat", "userId", user.ID, "error", err)
		return nil, ErrChatUnavailable
	}

	resp := msg.ToResponse()
	return &resp, nil
}

// History 返回当前用户最近 50 条记录，最新的在前。
func (s *chatService) History(ctx context.Context, user *model.User) ([]model.ChatResponse, error) {
	msgs, err := s.chatRepo.FindByUser(ctx, user.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.ChatResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ToResponse())
	}
	return out, nil
}
