package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/quickcart-next/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled Redis 未启用
var ErrRedisDisabled = errors.New("redis is not enabled")

// 版本号不大于已存版本的写入直接丢弃
var putCartScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'revision') or '-1')
if current >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'revision', ARGV[1], 'payload', ARGV[2])
return 1
`)

// RedisCartStorage 基于 Redis 的购物车快照存储
type RedisCartStorage struct{}

// NewRedisCartStorage 创建 Redis 购物车存储
func NewRedisCartStorage() *RedisCartStorage {
	return &RedisCartStorage{}
}

func cartKey(key string) string {
	return buildKey("cart:" + key)
}

func (s *RedisCartStorage) put(ctx context.Context, key string, revision uint64, payload string) error {
	if !Enabled() {
		return ErrRedisDisabled
	}
	return putCartScript.Run(ctx, redisClient, []string{cartKey(key)}, strconv.FormatUint(revision, 10), payload).Err()
}

// SaveCart 写入完整购物车状态
func (s *RedisCartStorage) SaveCart(ctx context.Context, key string, state *models.CartState) error {
	if state == nil {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart state: %w", err)
	}
	return s.put(ctx, key, state.Revision, string(payload))
}

// LoadCart 读取购物车状态，不存在返回 nil；已清空时返回只带版本号的空状态
func (s *RedisCartStorage) LoadCart(ctx context.Context, key string) (*models.CartState, error) {
	if !Enabled() {
		return nil, ErrRedisDisabled
	}
	fields, err := redisClient.HGetAll(ctx, cartKey(key)).Result()
	if err != nil {
		return nil, err
	}
	return decodeCartHash(fields)
}

func decodeCartHash(fields map[string]string) (*models.CartState, error) {
	rawRevision, ok := fields["revision"]
	if !ok {
		return nil, nil
	}
	revision, err := strconv.ParseUint(rawRevision, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cart revision: %w", err)
	}
	payload := fields["payload"]
	if payload == "" {
		return &models.CartState{Revision: revision, Items: []models.CartItem{}}, nil
	}
	var state models.CartState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("unmarshal cart state: %w", err)
	}
	if state.Revision < revision {
		state.Revision = revision
	}
	return &state, nil
}

// RemoveCart 写入清空标记（保留版本号）
func (s *RedisCartStorage) RemoveCart(ctx context.Context, key string, revision uint64) error {
	return s.put(ctx, key, revision, "")
}
