// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the live-push channel, and
// the integration event publisher.
package ports

import (
	"context"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row for the duration of
	// the surrounding transaction. Status transitions and courier assignment
	// must load through this method so concurrent writers serialize per order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUnassigned retrieves orders still waiting for a courier, oldest
	// first. Used by the auto-dispatch job.
	GetAllUnassigned(ctx context.Context) ([]*order.Order, error)
}
