package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisRevocationList stores revoked token IDs in Redis until their natural
// expiry, at which point the key lapses on its own. This is the logout
// backing store: tokens stay stateless, only revocations are recorded.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationList is the in-process fallback used when Redis is not
// configured, so logout still invalidates tokens within one process.
type MemoryRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{revoked: make(map[string]time.Time)}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, until time.Time) error {
	if time.Now().After(until) {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.revoked[jti] = until

	// Opportunistic sweep of entries whose tokens have since expired.
	now := time.Now()
	for id, exp := range l.revoked {
		if now.After(exp) {
			delete(l.revoked, id)
		}
	}
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(l.revoked, jti)
		return false, nil
	}
	return true, nil
}
