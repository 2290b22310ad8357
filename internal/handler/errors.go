package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/service"
	"neuvera-go/pkg/log"
)

// detail 写出 {"detail": msg}，与前端读取错误的字段保持一致。
func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// badRequest 用于请求体无法绑定的情况。
func badRequest(c *gin.Context, op string, err error) {
	log.Warnf("%s: Invalid request payload, error: %v", op, err)
	detail(c, http.StatusBadRequest, "Invalid request body")
}

// respondError 将业务错误映射为状态码。未知错误只记录日志，对外统一返回 500。
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		detail(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		detail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		detail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrForbidden):
		detail(c, http.StatusForbidden, "Admin access required")
	case errors.Is(err, service.ErrChatUnavailable):
		detail(c, http.StatusInternalServerError, "Chat service unavailable")
	case errors.Is(err, service.ErrTrackingFailed):
		detail(c, http.StatusInternalServerError, "Tracking failed")
	default:
		log.Errorw(op+" failed", "error", err, "path", c.FullPath())
		detail(c, http.StatusInternalServerError, "Internal server error")
	}
}
