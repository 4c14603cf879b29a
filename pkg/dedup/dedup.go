// Package dedup guards against duplicate trigger deliveries. The event bus
// may redeliver a trigger event; the worker claims each event ID before
// dispatching and drops events it has already seen.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "relay:trigger:"
	defaultTTL = 24 * time.Hour
)

// Guard claims trigger event IDs. FirstDelivery returns true exactly once
// per event ID within the retention window.
type Guard interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// RedisGuard claims event IDs with SETNX so the guarantee holds across
// worker replicas.
type RedisGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisGuard connects to Redis and verifies the connection.
func NewRedisGuard(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisGuard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisGuard{
		client: client,
		ttl:    defaultTTL,
		logger: logger.With("module", "dedup"),
	}, nil
}

func (g *RedisGuard) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	claimed, err := g.client.SetNX(ctx, keyPrefix+eventID, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", eventID, err)
	}

	if !claimed {
		g.logger.DebugContext(ctx, "duplicate trigger event dropped", "event_id", eventID)
	}

	return claimed, nil
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}

// MemoryGuard is an in-process guard for single-instance deployments and
// tests.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		seen: make(map[string]time.Time),
		ttl:  defaultTTL,
	}
}

func (g *MemoryGuard) FirstDelivery(_ context.Context, eventID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()

	if claimedAt, ok := g.seen[eventID]; ok && now.Sub(claimedAt) < g.ttl {
		return false, nil
	}

	g.seen[eventID] = now

	return true, nil
}

func (g *MemoryGuard) Close() error {
	return nil
}
