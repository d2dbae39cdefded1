package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store persists session state by session id.
type Store interface {
	Load(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, id string, s State) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Entries expire after ttl without
// a Load or Save.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, bool, error) {
	if x, found := m.cache.Get(id); found {
		m.cache.Set(id, x, cache.DefaultExpiration)
		return x.(State), true, nil
	}
	return State{}, false, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s State) error {
	m.cache.Set(id, s, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

const redisKeyPrefix = "session:"

// RedisStore keeps sessions as JSON so several server instances can share them.
// Like MemoryStore, every Load or Save restarts the ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, id string) (State, bool, error) {
	raw, err := r.client.GetEx(ctx, redisKeyPrefix+id, r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+id, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
