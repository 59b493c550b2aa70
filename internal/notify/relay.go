// Package notify implements the presence-aware messaging relay. It consults
// the presence registry before pushing and never lets a push failure reach the
// caller: the durable store is the source of truth, the live channel is only
// an accelerant.
package notify

import (
	"context"
	"log/slog"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/ports"
	"agrimarket/internal/presence"
)

// Notification kinds emitted by the dispatch and messaging flows.
const (
	KindChatMessage     = "chat_message"
	KindCourierAssigned = "courier_assigned"
	KindLocationUpdate  = "location_update"
	KindOrderStatus     = "order_status"
	KindPresenceOnline  = "presence_online"
	KindPresenceOffline = "presence_offline"
)

// Relay routes notifications to connected recipients in real time.
type Relay struct {
	registry *presence.Registry
	pusher   ports.Pusher
	logger   *slog.Logger
}

// NewRelay creates a relay over the given registry and push channel.
func NewRelay(registry *presence.Registry, pusher ports.Pusher, logger *slog.Logger) *Relay {
	return &Relay{
		registry: registry,
		pusher:   pusher,
		logger:   logger.With("component", "notify.relay"),
	}
}

// Deliver pushes the notification to the recipient if they are online and
// reports whether they were. The report reflects presence at send time, not
// push success: a failed push against an online recipient is logged and
// swallowed, because the recipient will catch up from the durable store on
// their next fetch.
func (r *Relay) Deliver(ctx context.Context, recipientID kernel.UUID, notification ports.Notification) bool {
	if !r.registry.IsOnline(recipientID) {
		return false
	}

	if err := r.pusher.Push(ctx, recipientID, notification); err != nil {
		r.logger.WarnContext(ctx, "push failed, recipient will catch up on next fetch",
			"recipient_id", recipientID.String(),
			"kind", notification.Kind,
			"error", err)
	}
	return true
}

// Broadcast delivers the same notification to several recipients, typically
// the buyer and seller of one order. Returns how many were online.
func (r *Relay) Broadcast(ctx context.Context, recipientIDs []kernel.UUID, notification ports.Notification) int {
	online := 0
	for _, recipientID := range recipientIDs {
		if r.Deliver(ctx, recipientID, notification) {
			online++
		}
	}
	return online
}
