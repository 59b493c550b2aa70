package ports

import (
	"context"

	"agrimarket/internal/core/domain/model/kernel"
)

// Notification is a real-time event pushed to one user's live channel.
// Data must be JSON-serializable.
type Notification struct {
	Kind string         `json:"kind"`
	Data map[string]any `json:"data"`
}

// Pusher sends notifications over a user's live connection. Implementations
// are best-effort; durable state never depends on a push succeeding.
type Pusher interface {
	Push(ctx context.Context, userID kernel.UUID, notification Notification) error
}
