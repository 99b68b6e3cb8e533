package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist хранит отозванные токены в Redis до истечения их срока.
// Проверяется и REST-middleware, и аутентификатором WS-соединений.
type TokenBlacklist struct {
	redis *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{redis: rdb}
}

func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.redis.Set(ctx, "blacklist:"+token, 1, ttl).Err()
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	exists, err := b.redis.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
