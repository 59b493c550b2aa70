package ports

import (
	"context"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate retrieves a courier and locks its row for the duration of
	// the surrounding transaction. Dispatch must load through this method so
	// two concurrent assignments cannot both claim the same courier.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllDispatchable retrieves all online, available couriers. The
	// matcher applies range, capacity, and city filtering on top.
	GetAllDispatchable(ctx context.Context) ([]*courier.Courier, error)
}
