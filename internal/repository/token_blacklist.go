package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisTokenBlacklist struct {
	redisClient *redis.Client
}

// NewTokenBlacklist 创建一个基于 Redis 的 TokenBlacklist 实例。
func NewTokenBlacklist(redisClient *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{redisClient: redisClient}
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// Add 将 jti 写入黑名单，ttl 到期后自动清除。ttl 不为正时无需记录，token 已经过期。
func (r *redisTokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.redisClient.Set(ctx, blacklistKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Contains 判断 jti 是否已被注销。
func (r *redisTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
