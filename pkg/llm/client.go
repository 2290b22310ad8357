// Package llm 提供了调用 OpenAI 兼容聊天接口（默认 Groq）的客户端。
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"neuvera-go/internal/config"
)

// ErrEmptyResponse 表示上游返回成功但没有任何候选回复。
var ErrEmptyResponse = errors.New("llm returned no choices")

// Session 描述一次会话：会话 ID 作为上游的 user 字段，SystemPrompt 作为首条 system 消息。
type Session struct {
	ID           string
	SystemPrompt string
}

// Client 定义了聊天补全能力，测试中可替换为假实现。
type Client interface {
	// Send 发送一条用户消息并同步返回完整回复。
	Send(ctx context.Context, session Session, message string) (string, error)
}

type openAIClient struct {
	cfg    config.LLMConfig
	client *openai.Client
}

// NewClient 根据配置创建一个 OpenAI 兼容的客户端。
func NewClient(cfg config.LLMConfig) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &openAIClient{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (c *openAIClient) Send(ctx context.Context, session Session, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: session.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		User: session.ID,
	}
	// 生成参数为零值时使用上游默认值
	if c.cfg.Generation.Temperature != 0 {
		req.Temperature = float32(c.cfg.Generation.Temperature)
	}
	if c.cfg.Generation.TopP != 0 {
		req.TopP = float32(c.cfg.Generation.TopP)
	}
	if c.cfg.Generation.MaxTokens != 0 {
		req.MaxTokens = c.cfg.Generation.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
