package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuvera-go/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) config.LLMConfig {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return config.LLMConfig{
		APIKey:         "gsk_test",
		BaseURL:        srv.URL,
		Model:          "llama-3.1-70b-versatile",
		TimeoutSeconds: 5,
	}
}

func TestSend_SendsSystemPromptAndSession(t *testing.T) {
	var got map[string]interface{}
	cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there!"},"finish_reason":"stop"}]}`))
	})
	cfg.Generation.MaxTokens = 256

	reply, err := NewClient(cfg).Send(context.Background(), Session{ID: "user_u-1", SystemPrompt: "You are Neuvera"}, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)

	assert.Equal(t, "llama-3.1-70b-versatile", got["model"])
	assert.Equal(t, "user_u-1", got["user"])
	assert.EqualValues(t, 256, got["max_tokens"])
	msgs, ok := got["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "You are Neuvera", msgs[0].(map[string]interface{})["content"])
	assert.Equal(t, "Hello", msgs[1].(map[string]interface{})["content"])
}

func TestSend_ProviderError(t *testing.T) {
	cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	})

	_, err := NewClient(cfg).Send(context.Background(), Session{ID: "user_u-1"}, "Hello")
	assert.Error(t, err)
}

func TestSend_NoChoices(t *testing.T) {
	cfg := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := NewClient(cfg).Send(context.Background(), Session{ID: "user_u-1"}, "Hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
