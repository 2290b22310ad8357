// Package router 组装 gin 引擎：全局中间件、/api 路由组与 /metrics。
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuvera-go/internal/handler"
	"neuvera-go/internal/middleware"
	"neuvera-go/internal/service"
)

// Dependencies 是路由需要的业务服务。
type Dependencies struct {
	UserService     service.UserService
	ChatService     service.ChatService
	TrackingService service.TrackingService
	AdminService    service.AdminService
	CORSOrigins     []string
}

// New 创建路由引擎。
func New(deps Dependencies) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		gin.Recovery(),
		middleware.CORS(deps.CORSOrigins),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(deps.UserService)
	authHandler := handler.NewAuthHandler(deps.UserService)
	chatHandler := handler.NewChatHandler(deps.ChatService)
	trackingHandler := handler.NewTrackingHandler(deps.TrackingService)
	adminHandler := handler.NewAdminHandler(deps.AdminService)

	api := r.Group("/api")
	{
		api.GET("/", handler.Health)

		auth := api.Group("/auth")
		{
			// 无需认证的路由 (公开访问)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/admin", authHandler.AdminLogin)

			// 需要认证的路由
			auth.POST("/signout", authRequired, authHandler.Signout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		chat := api.Group("/chat")
		chat.Use(authRequired)
		{
			chat.POST("", chatHandler.Chat)
			chat.GET("/history", chatHandler.History)
		}

		// 匿名可用，携带 token 时记录 user_id
		api.POST("/track", middleware.OptionalAuth(deps.UserService), trackingHandler.Track)

		admin := api.Group("/admin")
		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin.Use(authRequired, middleware.AdminAuthMiddleware())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/events", adminHandler.Events)
		}
	}

	return r
}
