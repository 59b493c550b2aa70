package ports

import (
	"context"

	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"
)

// InventoryRepository defines the persistence contract for inventory items.
type InventoryRepository interface {
	// Add persists a new inventory item to storage.
	Add(ctx context.Context, aggregate *inventory.Item) error

	// Update persists changes to an existing inventory item.
	Update(ctx context.Context, aggregate *inventory.Item) error

	// Get retrieves an inventory item by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*inventory.Item, error)

	// GetForUpdate retrieves an item and locks its row for the duration of
	// the surrounding transaction. Reservations and restores must load
	// through this method so concurrent orders cannot overdraw stock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*inventory.Item, error)
}
