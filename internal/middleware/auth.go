// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/model"
)

// gin 上下文中的键
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// TokenResolver 将 bearer token 解析为用户，service.UserService 实现了它。
type TokenResolver interface {
	Resolve(ctx context.Context, tokenString string) (*model.User, error)
}

// abortWithDetail 以 {"detail": msg} 的形式中止请求。
func abortWithDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// bearerToken 从 Authorization 请求头中提取 token，格式不正确时返回 false。
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	scheme, tok, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// AuthMiddleware 创建一个 Gin 中间件，用于 bearer token 认证。
// 它会从请求头中提取 token，验证其有效性，并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithDetail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			abortWithDetail(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		// 将完整的 User 对象存储在 context 中，供后续处理函数使用
		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

// OptionalAuth 在携带有效 token 时写入用户，否则按匿名请求继续，从不拒绝请求。
func OptionalAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if user, err := resolver.Resolve(c.Request.Context(), tokenString); err == nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextTokenKey, tokenString)
			}
		}
		c.Next()
	}
}

// CurrentUser 返回 AuthMiddleware/OptionalAuth 写入的用户。
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// CurrentToken 返回当前请求通过认证的 token。
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
