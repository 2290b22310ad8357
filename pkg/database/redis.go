package database

import (
	"context"

	"github.com/go-redis/redis/v8"

	"neuvera-go/pkg/log"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接，用于 token 黑名单。
func InitRedis(addr, password string, db int) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}

	log.Info("Redis client connected successfully")
}

// CloseRedis 关闭 Redis 客户端。
func CloseRedis() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
