// Package push delivers live notifications over redis pub/sub. Each user has
// a dedicated channel; whatever edge process holds the user's connection
// subscribes to it and forwards payloads. Publishing to a channel with no
// subscriber is a silent no-op, which matches the best-effort contract of the
// relay on top.
package push

import (
	"context"
	"encoding/json"
	"fmt"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

// RedisPusher implements ports.Pusher over redis pub/sub.
type RedisPusher struct {
	rdb *redis.Client
}

// NewRedisPusher connects to redis and verifies the connection.
func NewRedisPusher(redisURL string) (*RedisPusher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPusher{rdb: rdb}, nil
}

// Push publishes the notification to the user's channel.
func (p *RedisPusher) Push(ctx context.Context, userID kernel.UUID, notification ports.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return p.rdb.Publish(ctx, channelFor(userID), payload).Err()
}

// Close releases the redis connection.
func (p *RedisPusher) Close() error {
	return p.rdb.Close()
}

func channelFor(userID kernel.UUID) string {
	return "user:" + userID.String()
}
