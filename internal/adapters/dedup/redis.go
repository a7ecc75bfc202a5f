package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inviteticketing/internal/domain"
)

const keyPrefix = "webhook:processed:"

// DefaultTTL bounds how long processed event ids are remembered. Stripe
// retries failed deliveries for up to three days.
const DefaultTTL = 72 * time.Hour

type redisDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a WebhookDedup backed by client.
func NewRedis(client *redis.Client, ttl time.Duration) domain.WebhookDedup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisDedup{client: client, ttl: ttl}
}

func (d *redisDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (d *redisDedup) Remember(ctx context.Context, eventID string) error {
	if err := d.client.Set(ctx, keyPrefix+eventID, 1, d.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Connect parses url and pings the server. When url is empty or the server is
// unreachable it returns a no-op dedup and the database constraints alone keep
// webhook handling idempotent.
func Connect(ctx context.Context, url string, logger *slog.Logger) (domain.WebhookDedup, func() error) {
	if url == "" {
		logger.Info("redis not configured, webhook dedup relies on database constraints")
		return Noop(), func() error { return nil }
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid REDIS_URL, running without webhook dedup", "err", err)
		return Noop(), func() error { return nil }
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, running without webhook dedup", "err", err)
		_ = client.Close()
		return Noop(), func() error { return nil }
	}
	logger.Info("redis connected")
	return NewRedis(client, DefaultTTL), client.Close
}

type noopDedup struct{}

// Noop returns a WebhookDedup that never reports an event as seen.
func Noop() domain.WebhookDedup {
	return noopDedup{}
}

func (noopDedup) Seen(context.Context, string) (bool, error) { return false, nil }

func (noopDedup) Remember(context.Context, string) error { return nil }
