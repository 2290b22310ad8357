package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/middleware"
	"neuvera-go/internal/model"
	"neuvera-go/internal/service"
)

// ChatHandler 负责聊天中转与历史记录。
type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 把用户消息发送给模型并返回保存后的问答记录。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Chat", err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	resp, err := h.chatService.Chat(c.Request.Context(), user, req.Message)
	if err != nil {
		respondError(c, "Chat", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History 返回当前用户最近的聊天记录。
func (h *ChatHandler) History(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	history, err := h.chatService.History(c.Request.Context(), user)
	if err != nil {
		respondError(c, "ChatHistory", err)
		return
	}
	c.JSON(http.StatusOK, history)
}
