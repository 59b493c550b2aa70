package delivery_test

import (
	"testing"
	"time"

	"agrimarket/internal/core/domain/model/delivery"
	"agrimarket/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	point, err := kernel.NewGeoPoint(22.7196, 75.8577)
	require.NoError(t, err)
	dest, err := kernel.NewAddress("14 MG Road", "Indore", point)
	require.NoError(t, err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), dest)
	require.NoError(t, err)
	return d
}

func TestNewDelivery(t *testing.T) {
	t.Run("should start assigned with no partner", func(t *testing.T) {
		d := newTestDelivery(t)

		assert.Equal(t, delivery.Assigned, d.Status())
		assert.Nil(t, d.PartnerID())
		assert.Nil(t, d.AssignedAt())
		assert.Nil(t, d.EstimatedDeliveryTime())
		assert.Nil(t, d.CurrentLocation())
	})
}

func TestDelivery_AssignPartner(t *testing.T) {
	t.Run("should bind partner and stamp the delivery promise", func(t *testing.T) {
		d := newTestDelivery(t)
		partnerID := kernel.NewUUID()

		require.NoError(t, d.AssignPartner(partnerID))

		require.NotNil(t, d.PartnerID())
		assert.True(t, d.PartnerID().IsEqual(partnerID))
		require.NotNil(t, d.AssignedAt())
		require.NotNil(t, d.EstimatedDeliveryTime())
		assert.Equal(t, delivery.EstimatedDeliveryWindow,
			d.EstimatedDeliveryTime().Sub(*d.AssignedAt()))
	})

	t.Run("should refuse second partner", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))

		err := d.AssignPartner(kernel.NewUUID())

		require.ErrorIs(t, err, delivery.ErrPartnerAlreadyAssigned)
	})
}

func TestDelivery_Progress(t *testing.T) {
	t.Run("should walk the full shipment sequence", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))

		require.NoError(t, d.MarkPickedUp())
		assert.Equal(t, delivery.PickedUp, d.Status())

		require.NoError(t, d.MarkInTransit())
		assert.Equal(t, delivery.InTransit, d.Status())

		require.NoError(t, d.MarkDelivered())
		assert.Equal(t, delivery.Delivered, d.Status())
		assert.True(t, d.Status().IsTerminal())
	})

	t.Run("should refuse progress without a partner", func(t *testing.T) {
		d := newTestDelivery(t)

		err := d.MarkPickedUp()

		require.ErrorIs(t, err, delivery.ErrNoPartnerAssigned)
	})

	t.Run("should refuse skipping a stage", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))

		err := d.MarkInTransit()

		var transitionErr *delivery.IllegalTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, delivery.Assigned, transitionErr.From)
		assert.Equal(t, delivery.InTransit, transitionErr.To)
	})

	t.Run("should refuse progress after delivery", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))
		require.NoError(t, d.MarkPickedUp())
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkDelivered())

		err := d.MarkPickedUp()

		require.ErrorIs(t, err, delivery.ErrDeliveryIsTerminal)
	})
}

func TestDelivery_MarkFailed(t *testing.T) {
	t.Run("should fail an unassigned delivery", func(t *testing.T) {
		d := newTestDelivery(t)

		require.NoError(t, d.MarkFailed())

		assert.Equal(t, delivery.Failed, d.Status())
	})

	t.Run("should fail an in-flight delivery and keep the partner", func(t *testing.T) {
		d := newTestDelivery(t)
		partnerID := kernel.NewUUID()
		require.NoError(t, d.AssignPartner(partnerID))
		require.NoError(t, d.MarkPickedUp())

		require.NoError(t, d.MarkFailed())

		assert.Equal(t, delivery.Failed, d.Status())
		require.NotNil(t, d.PartnerID())
		assert.True(t, d.PartnerID().IsEqual(partnerID))
	})

	t.Run("should refuse failing a delivered delivery", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))
		require.NoError(t, d.MarkPickedUp())
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkDelivered())

		err := d.MarkFailed()

		require.ErrorIs(t, err, delivery.ErrDeliveryIsTerminal)
	})
}

func TestDelivery_UpdateLocation(t *testing.T) {
	t.Run("should record the partner's position with a timestamp", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.AssignPartner(kernel.NewUUID()))
		point, _ := kernel.NewGeoPoint(22.75, 75.89)
		before := time.Now()

		require.NoError(t, d.UpdateLocation(point))

		loc := d.CurrentLocation()
		require.NotNil(t, loc)
		assert.True(t, loc.Point.IsEqual(point))
		assert.False(t, loc.LastUpdated.Before(before))
	})

	t.Run("should refuse position reports without a partner", func(t *testing.T) {
		d := newTestDelivery(t)
		point, _ := kernel.NewGeoPoint(22.75, 75.89)

		err := d.UpdateLocation(point)

		require.ErrorIs(t, err, delivery.ErrNoPartnerAssigned)
	})
}
