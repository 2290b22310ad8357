// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"neuvera-go/internal/config"
	"neuvera-go/internal/repository"
	"neuvera-go/internal/router"
	"neuvera-go/internal/service"
	"neuvera-go/pkg/database"
	"neuvera-go/pkg/kafka"
	"neuvera-go/pkg/llm"
	"neuvera-go/pkg/log"
	"neuvera-go/pkg/token"
)

func main() {
	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化存储和 Redis
	store := initStore(cfg.Database)
	// Redis 保存 token 黑名单，不可达时直接退出
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	publisher := kafka.NewPublisher(cfg.Kafka)
	if cfg.LLM.APIKey == "" {
		log.Warnf("GROQ_API_KEY 未配置，聊天请求将返回 500")
	}

	// 4. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	blacklist := repository.NewTokenBlacklist(database.RDB)
	llmClient := llm.NewClient(cfg.LLM)
	userService := service.NewUserService(store.Users, blacklist, jwtManager, service.AdminCredentials{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		Email:        cfg.Admin.Email,
	})
	chatService := service.NewChatService(store.Chats, llmClient, cfg.LLM.Prompt.System)
	trackingService := service.NewTrackingService(store.Events, publisher)
	adminService := service.NewAdminService(store)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := router.New(router.Dependencies{
		UserService:     userService,
		ChatService:     chatService,
		TrackingService: trackingService,
		AdminService:    adminService,
		CORSOrigins:     cfg.CORS.AllowedOrigins(),
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}

	// 依次释放外部连接
	if err := publisher.Close(); err != nil {
		log.Error("关闭 Kafka 生产者失败", err)
	}
	if err := database.CloseRedis(); err != nil {
		log.Error("关闭 Redis 失败", err)
	}
	if err := closeStore(ctx, cfg.Database.Driver); err != nil {
		log.Error("关闭存储失败", err)
	}
	log.Info("服务已优雅关闭")
}

// initStore 按 database.driver 打开对应的持久化后端。
func initStore(cfg config.DatabaseConfig) *repository.Store {
	switch cfg.Driver {
	case "mysql":
		database.InitMySQL(cfg.MySQL.DSN)
		if err := repository.AutoMigrate(database.DB); err != nil {
			log.Fatal("failed to migrate database", err)
		}
		return repository.NewGormStore(database.DB)
	case "mongo", "":
		database.InitMongo(cfg.Mongo.URL, cfg.Mongo.Name)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureMongoIndexes(ctx, database.MongoDB); err != nil {
			log.Fatal("failed to create mongodb indexes", err)
		}
		return repository.NewMongoStore(database.MongoDB)
	default:
		log.Fatalf("不支持的存储驱动: %s", cfg.Driver)
		return nil
	}
}

func closeStore(ctx context.Context, driver string) error {
	if driver == "mysql" {
		return database.CloseMySQL()
	}
	return database.CloseMongo(ctx)
}
