package order_test

import (
	"testing"

	"agrimarket/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Advance(t *testing.T) {
	t.Run("should advance along the forward chain", func(t *testing.T) {
		chain := []order.Status{
			order.Pending, order.Confirmed, order.PickedUp, order.InTransit, order.Delivered,
		}

		for i := 0; i < len(chain)-1; i++ {
			next, err := chain[i].Advance(chain[i+1])
			require.NoError(t, err)
			assert.Equal(t, chain[i+1], next)
		}
	})

	t.Run("should reject backward transition", func(t *testing.T) {
		_, err := order.Delivered.Advance(order.Confirmed)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reject skipping forward", func(t *testing.T) {
		_, err := order.Pending.Advance(order.PickedUp)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reject re-entering terminal state", func(t *testing.T) {
		_, err := order.Delivered.Advance(order.Delivered)
		require.ErrorIs(t, err, order.ErrIllegalTransition)

		_, err = order.Cancelled.Advance(order.Confirmed)
		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reject cancelling through Advance", func(t *testing.T) {
		_, err := order.Pending.Advance(order.Cancelled)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should report transition detail", func(t *testing.T) {
		_, err := order.Delivered.Advance(order.Confirmed)

		var transitionErr *order.IllegalTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, order.Delivered, transitionErr.From)
		assert.Equal(t, order.Confirmed, transitionErr.To)
	})
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("should cancel from any non-terminal state", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Confirmed, order.PickedUp, order.InTransit,
		} {
			next, err := status.Cancel()
			require.NoError(t, err, status.String())
			assert.Equal(t, order.Cancelled, next)
		}
	})

	t.Run("should reject cancel from terminal states", func(t *testing.T) {
		_, err := order.Delivered.Cancel()
		require.ErrorIs(t, err, order.ErrIllegalTransition)

		_, err = order.Cancelled.Cancel()
		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})
}

func TestStatus_Properties(t *testing.T) {
	t.Run("should identify terminal states", func(t *testing.T) {
		assert.True(t, order.Delivered.IsTerminal())
		assert.True(t, order.Cancelled.IsTerminal())
		assert.False(t, order.Pending.IsTerminal())
		assert.False(t, order.InTransit.IsTerminal())
	})

	t.Run("should identify courier-requiring states", func(t *testing.T) {
		assert.True(t, order.PickedUp.RequiresCourier())
		assert.True(t, order.InTransit.RequiresCourier())
		assert.True(t, order.Delivered.RequiresCourier())
		assert.False(t, order.Pending.RequiresCourier())
		assert.False(t, order.Confirmed.RequiresCourier())
		assert.False(t, order.Cancelled.RequiresCourier())
	})

	t.Run("should round-trip through string form", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Confirmed, order.PickedUp,
			order.InTransit, order.Delivered, order.Cancelled,
		} {
			parsed, err := order.StatusFromString(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject unknown status string", func(t *testing.T) {
		_, err := order.StatusFromString("Teleported")
		require.Error(t, err)
	})
}
