package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshUsed 未知、过期或已经用过的 refresh token
var ErrRefreshUsed = errors.New("refresh token expired or already used")

// RefreshStore 保存可用的 refresh token id
type RefreshStore interface {
	Save(ctx context.Context, jti string, uid uint, ttl time.Duration) error
	// Consume 原子地取出并作废；不存在或属于其他用户时返回 ErrRefreshUsed
	Consume(ctx context.Context, jti string, uid uint) error
}

type RedisRefreshStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb, prefix: "refresh:"}
}

func (s *RedisRefreshStore) Save(ctx context.Context, jti string, uid uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+jti, strconv.FormatUint(uint64(uid), 10), ttl).Err()
}

func (s *RedisRefreshStore) Consume(ctx context.Context, jti string, uid uint) error {
	v, err := s.rdb.GetDel(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return ErrRefreshUsed
	}
	if err != nil {
		return fmt.Errorf("consume refresh: %w", err)
	}
	if v != strconv.FormatUint(uint64(uid), 10) {
		return ErrRefreshUsed
	}
	return nil
}

type memEntry struct {
	uid    uint
	expiry time.Time
}

// MemoryRefreshStore 单进程使用（未配置 redis 时）
type MemoryRefreshStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{entries: make(map[string]memEntry)}
}

func (s *MemoryRefreshStore) Save(_ context.Context, jti string, uid uint, ttl time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if now.After(e.expiry) {
			delete(s.entries, k)
		}
	}
	s.entries[jti] = memEntry{uid: uid, expiry: now.Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Consume(_ context.Context, jti string, uid uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[jti]
	if !ok {
		return ErrRefreshUsed
	}
	delete(s.entries, jti)
	if e.uid != uid || time.Now().After(e.expiry) {
		return ErrRefreshUsed
	}
	return nil
}
