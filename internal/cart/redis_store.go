package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/angelmondragon/londonshop-backend/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(sessionID, storageKey string) string
}

// RedisStore scopes cart values to one browsing session in Redis. Every write
// refreshes the TTL so active carts do not expire.
type RedisStore struct {
	client    redisKV
	sessionID string
	ttl       time.Duration
}

func NewRedisStore(client *redisclient.Client, sessionID string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	return &RedisStore{client: client, sessionID: sessionID, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.CartKey(r.sessionID, key))
	if redisclient.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.CartKey(r.sessionID, key), value, r.ttl)
}

// RedisStoreFactory scopes each session's cart to its own Redis key.
func RedisStoreFactory(client *redisclient.Client, ttl time.Duration) StoreFactory {
	return func(sessionID string) (Store, error) {
		return NewRedisStore(client, sessionID, ttl)
	}
}
