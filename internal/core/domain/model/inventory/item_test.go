package inventory_test

import (
	"testing"

	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPickup(t *testing.T) kernel.Address {
	t.Helper()
	point, err := kernel.NewGeoPoint(22.7196, 75.8577)
	require.NoError(t, err)
	addr, err := kernel.NewAddress("Mandi Road 14", "Indore", point)
	require.NoError(t, err)
	return addr
}

func newTestItem(t *testing.T, availableKg float64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(
		kernel.NewUUID(), kernel.NewUUID(), "Wheat", inventory.Crop, 10, availableKg, testPickup(t))
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("should create valid item", func(t *testing.T) {
		item := newTestItem(t, 100)

		assert.Equal(t, "Wheat", item.Name())
		assert.Equal(t, inventory.Crop, item.Type())
		assert.InDelta(t, 100, item.AvailableKg(), 1e-9)
		assert.True(t, item.IsAvailable())
		assert.Zero(t, item.SoldKg())
	})

	t.Run("should mark zero-stock item unavailable", func(t *testing.T) {
		item, err := inventory.NewItem(
			kernel.NewUUID(), kernel.NewUUID(), "Wheat", inventory.Crop, 10, 0, testPickup(t))

		require.NoError(t, err)
		assert.False(t, item.IsAvailable())
	})

	t.Run("should reject invalid inputs", func(t *testing.T) {
		pickup := testPickup(t)

		_, err := inventory.NewItem(kernel.NewUUID(), kernel.NewUUID(), "", inventory.Crop, 10, 5, pickup)
		require.Error(t, err)

		_, err = inventory.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Wheat", inventory.UnknownItemType, 10, 5, pickup)
		require.Error(t, err)

		_, err = inventory.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Wheat", inventory.Crop, 0, 5, pickup)
		require.Error(t, err)

		_, err = inventory.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Wheat", inventory.Crop, 10, -1, pickup)
		require.Error(t, err)
	})
}

func TestItem_Reserve(t *testing.T) {
	t.Run("should decrement stock and advance sold counters", func(t *testing.T) {
		item := newTestItem(t, 100)

		require.NoError(t, item.Reserve(30))

		assert.InDelta(t, 70, item.AvailableKg(), 1e-9)
		assert.InDelta(t, 30, item.SoldKg(), 1e-9)
		assert.InDelta(t, 300, item.Revenue(), 1e-9)
		assert.True(t, item.IsAvailable())
	})

	t.Run("should flip availability when last kilogram is reserved", func(t *testing.T) {
		item := newTestItem(t, 30)

		require.NoError(t, item.Reserve(30))

		assert.Zero(t, item.AvailableKg())
		assert.False(t, item.IsAvailable())
	})

	t.Run("should fail without writes when stock is insufficient", func(t *testing.T) {
		item := newTestItem(t, 20)

		err := item.Reserve(20.01)

		require.Error(t, err)
		require.ErrorIs(t, err, inventory.ErrInsufficientStock)

		var stockErr *inventory.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.InDelta(t, 20.01, stockErr.RequestedKg, 1e-9)
		assert.InDelta(t, 20, stockErr.AvailableKg, 1e-9)

		// No partial write happened.
		assert.InDelta(t, 20, item.AvailableKg(), 1e-9)
		assert.Zero(t, item.SoldKg())
		assert.True(t, item.IsAvailable())
	})

	t.Run("should reject reservations on drained item", func(t *testing.T) {
		item := newTestItem(t, 10)
		require.NoError(t, item.Reserve(10))

		err := item.Reserve(1)

		require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		item := newTestItem(t, 10)

		require.Error(t, item.Reserve(0))
		require.Error(t, item.Reserve(-5))
	})

	t.Run("should never oversell across sequential reservations", func(t *testing.T) {
		item := newTestItem(t, 10)

		var reserved float64
		for i := 0; i < 10; i++ {
			if err := item.Reserve(3); err == nil {
				reserved += 3
			}
		}

		assert.LessOrEqual(t, reserved, 10.0)
		assert.GreaterOrEqual(t, item.AvailableKg(), 0.0)
	})
}

func TestItem_Restore(t *testing.T) {
	t.Run("should return reserved quantity and reverse counters", func(t *testing.T) {
		item := newTestItem(t, 50)
		require.NoError(t, item.Reserve(50))
		require.False(t, item.IsAvailable())

		require.NoError(t, item.Restore(50))

		assert.InDelta(t, 50, item.AvailableKg(), 1e-9)
		assert.Zero(t, item.SoldKg())
		assert.Zero(t, item.Revenue())
		assert.True(t, item.IsAvailable())
	})

	t.Run("should reopen partially restored item", func(t *testing.T) {
		item := newTestItem(t, 8)
		require.NoError(t, item.Reserve(8))

		require.NoError(t, item.Restore(3))

		assert.InDelta(t, 3, item.AvailableKg(), 1e-9)
		assert.InDelta(t, 5, item.SoldKg(), 1e-9)
		assert.True(t, item.IsAvailable())
	})
}

func TestItemTypeFromString(t *testing.T) {
	t.Run("should parse all known types", func(t *testing.T) {
		for _, name := range []string{"crop", "seed", "pesticide", "fertilizer", "equipment"} {
			itemType, err := inventory.ItemTypeFromString(name)
			require.NoError(t, err)
			assert.Equal(t, name, itemType.String())
		}
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		_, err := inventory.ItemTypeFromString("livestock")
		require.Error(t, err)
	})
}
