package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
	"neuvera-go/internal/repository/memory"
	"neuvera-go/internal/service"
	"neuvera-go/pkg/hash"
	"neuvera-go/pkg/llm"
	"neuvera-go/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Send(context.Context, llm.Session, string) (string, error) {
	return f.reply, f.err
}

type nopPublisher struct{}

func (nopPublisher) PublishTrackingEvent(context.Context, *model.TrackingEvent) error { return nil }
func (nopPublisher) Close() error                                                     { return nil }

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *repository.Store
	llm    *fakeLLM
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	adminHash, err := hash.HashPassword("admin-pw")
	require.NoError(t, err)

	store := memory.NewStore()
	client := &fakeLLM{reply: "Hello from Neuvera"}
	users := service.NewUserService(store.Users, memory.NewTokenBlacklist(), token.NewJWTManager("router-secret", 1),
		service.AdminCredentials{Username: "ops", PasswordHash: adminHash, Email: "admin@neuvera.ai"})

	engine := New(Dependencies{
		UserService:     users,
		ChatService:     service.NewChatService(store.Chats, client, ""),
		TrackingService: service.NewTrackingService(store.Events, nopPublisher{}),
		AdminService:    service.NewAdminService(store),
		CORSOrigins:     []string{"*"},
	})
	return &testServer{t: t, engine: engine, store: store, llm: client}
}

func (s *testServer) do(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.RemoteAddr = "203.0.113.5:41000"
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) signupAndSignin(email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": email, "password": password, "first_name": "A", "last_name": "B"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res model.AuthResponse
	decode(s.t, w, &res)
	return res.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Neuvera.ai API is running","status":"healthy"}`, w.Body.String())
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@b.com", "password": "pw1", "first_name": "A", "last_name": "B"})
	require.Equal(t, http.StatusOK, w.Code)
	var user map[string]interface{}
	decode(t, w, &user)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, false, user["is_admin"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "token")

	w = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "a@b.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	var auth model.AuthResponse
	decode(t, w, &auth)
	t1 := auth.Token
	require.NotEmpty(t, t1)

	w = s.do(http.MethodGet, "/api/chat/history", t1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodPost, "/api/track", "", gin.H{
		"event_type": "page_view", "page_url": "/", "user_agent": "UA", "ip_address": "1.2.3.4",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var tracked model.TrackResponse
	decode(t, w, &tracked)
	assert.Equal(t, "success", tracked.Status)
	assert.NotEmpty(t, tracked.EventID)

	events, err := s.store.Events.FindRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, tracked.EventID, events[0].ID)
	assert.Equal(t, "6694f83c9f476da31f5df6bcc520034e7e57d421d247b9d34f49edbfc84a764c", events[0].IPAddress)

	w = s.do(http.MethodGet, "/api/admin/stats", t1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Admin access required"}`, w.Body.String())
}

func TestSignupDuplicateAndSignin(t *testing.T) {
	s := newTestServer(t)
	s.signupAndSignin("a@b.com", "pw1")

	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@b.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"User already exists"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "a@b.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid credentials"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSecondSigninInvalidatesFirstToken(t *testing.T) {
	s := newTestServer(t)
	first := s.signupAndSignin("a@b.com", "pw1")

	w := s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "a@b.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	var res model.AuthResponse
	decode(t, w, &res)
	assert.NotEqual(t, first, res.Token)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/chat/history", first, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/chat/history", res.Token, nil).Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/chat/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/chat", "bogus", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token"}`, w.Body.String())
}

func TestChatFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.signupAndSignin("a@b.com", "pw1")

	w := s.do(http.MethodPost, "/api/chat", tok, gin.H{"message": "Hello"})
	require.Equal(t, http.StatusOK, w.Code)
	var chat map[string]interface{}
	decode(t, w, &chat)
	assert.Equal(t, "Hello", chat["message"])
	assert.Equal(t, "Hello from Neuvera", chat["response"])
	assert.NotContains(t, chat, "user_id")

	w = s.do(http.MethodGet, "/api/chat/history", tok, nil)
	var history []model.ChatResponse
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, chat["id"], history[0].ID)

	s.llm.err = errors.New("upstream 503: key gsk_live_secret rejected")
	w = s.do(http.MethodPost, "/api/chat", tok, gin.H{"message": "again"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Chat service unavailable"}`, w.Body.String())
	assert.False(t, strings.Contains(w.Body.String(), "gsk_live_secret"))

	n, _ := s.store.Chats.Count(context.Background())
	assert.EqualValues(t, 1, n)
}

func TestTrackUsesClientIPAndOptionalUser(t *testing.T) {
	s := newTestServer(t)
	tok := s.signupAndSignin("a@b.com", "pw1")

	w := s.do(http.MethodPost, "/api/track", tok, gin.H{"event_type": "click", "page_url": "/p", "user_agent": "UA"})
	require.Equal(t, http.StatusOK, w.Code)

	events, _ := s.store.Events.FindRecent(context.Background(), 1)
	require.Len(t, events, 1)
	assert.Equal(t, "440a628a0c975ea32d4db42ca94acebc975ab378b3ee2a692ccf2ecae6038bbd", events[0].IPAddress)
	require.NotNil(t, events[0].UserID)
	assert.NotEmpty(t, *events[0].UserID)
}

func TestAdminFlow(t *testing.T) {
	s := newTestServer(t)
	userTok := s.signupAndSignin("a@b.com", "pw1")
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/chat", userTok, gin.H{"message": "Hello"}).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/track", "", gin.H{"event_type": "page_view", "page_url": "/", "user_agent": "UA", "ip_address": "1.2.3.4"}).Code)

	w := s.do(http.MethodPost, "/api/auth/admin", "", gin.H{"email": "ops", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid admin credentials"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/admin", "", gin.H{"email": "ops", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var admin model.AuthResponse
	decode(t, w, &admin)
	assert.True(t, admin.User.IsAdmin)
	assert.Equal(t, "admin", admin.User.ID)

	w = s.do(http.MethodGet, "/api/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.AdminStats
	decode(t, w, &stats)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalChats)
	assert.EqualValues(t, 1, stats.TotalEvents)
	require.Len(t, stats.RecentActivity, 2)
	assert.Equal(t, "event", stats.RecentActivity[0].Type)
	assert.Equal(t, "chat", stats.RecentActivity[1].Type)
	assert.Equal(t, "Hello...", stats.RecentActivity[1].Data["message"])

	w = s.do(http.MethodGet, "/api/admin/events", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]interface{}
	decode(t, w, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "page_view", events[0]["event_type"])
}

func TestSignoutAndMe(t *testing.T) {
	s := newTestServer(t)
	tok := s.signupAndSignin("a@b.com", "pw1")

	w := s.do(http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "a@b.com", me.Email)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/signout", tok, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", tok, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/", "", nil)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "neuvera_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminEmailCannotBeClaimedBySignup(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "admin@neuvera.ai", "password": "attacker"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"User already exists"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/admin", "", gin.H{"email": "ops", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "admin@neuvera.ai", "password": "attacker"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid credentials"}`, w.Body.String())
}
