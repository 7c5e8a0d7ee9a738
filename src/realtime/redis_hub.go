package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisHub shares user channels between API instances through Redis PUBLISH/SUBSCRIBE.
type RedisHub struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisHub(client *redis.Client, logger *slog.Logger) *RedisHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisHub{client: client, logger: logger}
}

// NewRedisHubFromURL parses a redis:// URL and verifies the server answers
func NewRedisHubFromURL(ctx context.Context, url string, logger *slog.Logger) (*RedisHub, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisHub(client, logger), nil
}

// Subscribe returns once Redis has confirmed the subscription, so a publish that
// happens after Subscribe returns is always seen.
func (h *RedisHub) Subscribe(ctx context.Context, userID uint) (*Subscription, error) {
	pubsub := h.client.Subscribe(ctx, channelKey(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channelKey(userID), err)
	}

	out := make(chan Envelope, subscriptionBuffer)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("dropping malformed envelope", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- env:
			default:
			}
		}
	}()

	return &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      out,
		cancel: func() {
			if err := pubsub.Close(); err != nil {
				h.logger.Warn("failed to close redis subscription", "user", userID, "error", err)
			}
		},
	}, nil
}

func (h *RedisHub) Publish(ctx context.Context, userID uint, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := h.client.Publish(ctx, channelKey(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channelKey(userID), err)
	}
	return nil
}

func (h *RedisHub) Close() error {
	return h.client.Close()
}
