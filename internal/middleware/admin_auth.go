package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware 检查用户是否具有管理员权限。
// 此中间件必须在 AuthMiddleware 之后使用。
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, ok := CurrentUser(c)
		if !ok {
			// AuthMiddleware 未能写入用户，按未认证处理
			abortWithDetail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if !currentUser.IsAdmin {
			abortWithDetail(c, http.StatusForbidden, "Admin access required")
			return
		}

		c.Next()
	}
}
