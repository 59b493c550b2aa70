package courier_test

import (
	"testing"

	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCourier(t *testing.T) *courier.Courier {
	t.Helper()
	vehicle, err := courier.NewVehicle(courier.Van, "MP09-AB-1234", 200)
	require.NoError(t, err)
	area, err := courier.NewServiceArea([]string{"Indore"}, 100)
	require.NoError(t, err)
	c, err := courier.NewCourier(kernel.NewUUID(), "DP001", "Ravi", "9876543210", vehicle, area)
	require.NoError(t, err)
	return c
}

func TestNewCourier(t *testing.T) {
	t.Run("should start offline with no position", func(t *testing.T) {
		c := newTestCourier(t)

		assert.Equal(t, courier.Offline, c.Status())
		assert.False(t, c.IsOnline())
		assert.Nil(t, c.Location())
		assert.False(t, c.IsDispatchable())
	})

	t.Run("should reject missing identity fields", func(t *testing.T) {
		vehicle, _ := courier.NewVehicle(courier.Bike, "MP09-XY-1", 20)
		area, _ := courier.NewServiceArea(nil, 10)

		_, err := courier.NewCourier(kernel.NewUUID(), "", "Ravi", "98765", vehicle, area)
		require.Error(t, err)

		_, err = courier.NewCourier(kernel.NewUUID(), "DP002", "", "98765", vehicle, area)
		require.Error(t, err)
	})

	t.Run("should reject unconstructed vehicle", func(t *testing.T) {
		var vehicle courier.Vehicle
		area, _ := courier.NewServiceArea(nil, 10)

		_, err := courier.NewCourier(kernel.NewUUID(), "DP003", "Ravi", "98765", vehicle, area)

		require.Error(t, err)
	})
}

func TestCourier_Presence(t *testing.T) {
	t.Run("should become available when going online", func(t *testing.T) {
		c := newTestCourier(t)

		require.NoError(t, c.MarkOnline())

		assert.True(t, c.IsOnline())
		assert.Equal(t, courier.Available, c.Status())
		assert.True(t, c.IsDispatchable())
	})

	t.Run("should become offline when disconnecting while available", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())

		require.NoError(t, c.MarkOffline())

		assert.False(t, c.IsOnline())
		assert.Equal(t, courier.Offline, c.Status())
	})

	t.Run("should keep busy status across a disconnect", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())
		require.NoError(t, c.Dispatch())

		require.NoError(t, c.MarkOffline())

		assert.False(t, c.IsOnline())
		assert.Equal(t, courier.Busy, c.Status())
	})
}

func TestCourier_Dispatch(t *testing.T) {
	t.Run("should flip available courier to busy", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())

		require.NoError(t, c.Dispatch())

		assert.Equal(t, courier.Busy, c.Status())
		assert.False(t, c.IsDispatchable())
	})

	t.Run("should refuse offline courier", func(t *testing.T) {
		c := newTestCourier(t)

		err := c.Dispatch()

		require.ErrorIs(t, err, courier.ErrCourierUnavailable)
	})

	t.Run("should refuse second dispatch of the same courier", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())
		require.NoError(t, c.Dispatch())

		err := c.Dispatch()

		require.ErrorIs(t, err, courier.ErrCourierUnavailable)
	})
}

func TestCourier_DeliveryCompletion(t *testing.T) {
	t.Run("should return courier to available and count success", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())
		require.NoError(t, c.Dispatch())

		require.NoError(t, c.CompleteDelivery())

		assert.Equal(t, courier.Available, c.Status())
		assert.Equal(t, 1, c.Stats().Total)
		assert.Equal(t, 1, c.Stats().Successful)
		assert.Zero(t, c.Stats().Cancelled)
	})

	t.Run("should count cancellation separately", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())
		require.NoError(t, c.Dispatch())

		require.NoError(t, c.CancelDelivery())

		assert.Equal(t, courier.Available, c.Status())
		assert.Equal(t, 1, c.Stats().Total)
		assert.Equal(t, 1, c.Stats().Cancelled)
		assert.Zero(t, c.Stats().Successful)
	})

	t.Run("should reject completion without active delivery", func(t *testing.T) {
		c := newTestCourier(t)
		require.NoError(t, c.MarkOnline())

		err := c.CompleteDelivery()

		require.ErrorIs(t, err, courier.ErrCourierNotBusy)
	})
}

func TestCourier_Capacity(t *testing.T) {
	t.Run("should accept weight exactly at capacity", func(t *testing.T) {
		vehicle, _ := courier.NewVehicle(courier.Van, "MP09-AB-1", 100)
		area, _ := courier.NewServiceArea(nil, 50)
		c, err := courier.NewCourier(kernel.NewUUID(), "DP010", "Asha", "98765", vehicle, area)
		require.NoError(t, err)

		assert.True(t, c.CanCarry(100.0))
		assert.False(t, c.CanCarry(100.01))
	})
}

func TestCourier_UpdateLocation(t *testing.T) {
	t.Run("should record last position and refresh lastSeen", func(t *testing.T) {
		c := newTestCourier(t)
		before := c.LastSeen()
		point, _ := kernel.NewGeoPoint(22.72, 75.86)

		require.NoError(t, c.UpdateLocation(point))

		require.NotNil(t, c.Location())
		assert.True(t, c.Location().IsEqual(point))
		assert.False(t, c.LastSeen().Before(before))
	})

	t.Run("should reject unconstructed point", func(t *testing.T) {
		c := newTestCourier(t)
		var zero kernel.GeoPoint

		require.Error(t, c.UpdateLocation(zero))
	})
}

func TestServiceArea(t *testing.T) {
	t.Run("should cover declared cities case-insensitively", func(t *testing.T) {
		area, err := courier.NewServiceArea([]string{"Indore", "Ujjain"}, 50)
		require.NoError(t, err)

		assert.True(t, area.ServesCity("indore"))
		assert.True(t, area.ServesCity("Ujjain"))
		assert.False(t, area.ServesCity("Bhopal"))
	})

	t.Run("should cover any city when none declared", func(t *testing.T) {
		area, err := courier.NewServiceArea(nil, 50)
		require.NoError(t, err)

		assert.True(t, area.ServesCity("Anywhere"))
	})

	t.Run("should bound distance inclusively at the radius", func(t *testing.T) {
		area, err := courier.NewServiceArea(nil, 50)
		require.NoError(t, err)

		assert.True(t, area.CoversDistance(49.99))
		assert.True(t, area.CoversDistance(50))
		assert.False(t, area.CoversDistance(50.01))
	})
}
