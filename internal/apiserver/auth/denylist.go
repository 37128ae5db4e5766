package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// denylist key 前缀
const denylistPrefix = "todo-admin:denylist:"

// Denylist 基于 Redis 的令牌吊销表
//
// logout 时按 JTI 记录，TTL 到令牌过期为止，之后键自动消失。
type Denylist struct {
	client redis.UniversalClient
}

// NewDenylist 按 Redis URL 创建吊销表
func NewDenylist(redisURL string) (*Denylist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("denylist: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("denylist: ping failed: %w", err)
	}
	return &Denylist{client: client}, nil
}

// Revoke 吊销令牌，expiresAt 之后键自动过期
func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// 已过期的令牌无需登记
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

// IsRevoked 检查令牌是否已被吊销
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 关闭 Redis 连接
func (d *Denylist) Close() error {
	return d.client.Close()
}
