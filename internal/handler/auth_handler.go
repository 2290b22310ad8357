// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/middleware"
	"neuvera-go/internal/model"
	"neuvera-go/internal/service"
	"neuvera-go/pkg/log"
)

// AuthHandler 负责处理注册、登录、管理员登录与注销请求。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Signup 处理用户注册请求，返回不含密码与 token 的用户信息。
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Signup", err)
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			log.Warnf("Signup: email already registered")
		}
		respondError(c, "Signup", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Signin 处理用户登录请求。
func (h *AuthHandler) Signin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Signin", err)
		return
	}

	res, err := h.userService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "Signin", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdminLogin 处理管理员登录。请求体与普通登录相同，email 字段承载管理员用户名。
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AdminLogin", err)
		return
	}

	res, err := h.userService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warnf("AdminLogin: rejected admin login from %s", c.ClientIP())
			detail(c, http.StatusUnauthorized, "Invalid admin credentials")
			return
		}
		respondError(c, "AdminLogin", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Signout 吊销当前请求使用的 token。
func (h *AuthHandler) Signout(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.userService.Signout(c.Request.Context(), user, middleware.CurrentToken(c)); err != nil {
		respondError(c, "Signout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// Me 返回当前用户的公开信息。
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user.Public())
}
