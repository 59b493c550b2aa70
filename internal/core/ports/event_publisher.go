package ports

import (
	"context"
	"time"
)

// OrderChangedEvent is the integration event emitted whenever an order's
// status changes, consumed by downstream analytics and seller dashboards.
type OrderChangedEvent struct {
	OrderID    string    `json:"order_id"`
	BuyerID    string    `json:"buyer_id"`
	SellerID   string    `json:"seller_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes integration events to the message broker.
// Publishing is best-effort relative to the business transaction: a publish
// failure is logged by the caller and never rolls the transaction back.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChangedEvent) error
	Close() error
}
