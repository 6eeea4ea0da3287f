package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Revocations records logged-out session ids until their tokens expire.
type Revocations interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations keeps revoked ids in Redis so every replica sees them.
// Logouts are also kept in process; while Redis is unreachable lookups
// fall back to that local list instead of failing the session.
type RedisRevocations struct {
	client *redis.Client
	prefix string
	local  *MemoryRevocations
	logger *logrus.Entry
}

func NewRedisRevocations(client *redis.Client, logger *logrus.Logger) *RedisRevocations {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisRevocations{
		client: client,
		prefix: "console:revoked:",
		local:  NewMemoryRevocations(),
		logger: logger.WithField("component", "session.revocations"),
	}
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	_ = r.local.Revoke(ctx, jti, until)
	if err := r.client.Set(ctx, r.prefix+jti, "1", ttl).Err(); err != nil {
		r.logger.WithError(err).Warn("Redis unavailable, logout kept on this replica only")
	}
	return nil
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		r.logger.WithError(err).Warn("Redis unavailable, checking local logouts only")
		return r.local.IsRevoked(ctx, jti)
	}
	if n > 0 {
		return true, nil
	}
	return r.local.IsRevoked(ctx, jti)
}

// MemoryRevocations is the single-process fallback when Redis is absent.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[jti] = until
	}
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[jti]
	return ok && exp.After(m.now()), nil
}
