package kernel_test

import (
	"math"
	"testing"

	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// degreesForKm converts a north-south distance in kilometers to a latitude offset
// in degrees. Along a meridian the Haversine distance is exactly R*dLat.
func degreesForKm(km float64) float64 {
	return km / kernel.EarthRadiusKm * 180 / math.Pi
}

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(22.7196, 75.8577)

		require.NoError(t, err)
		assert.InDelta(t, 22.7196, point.Lat(), 1e-9)
		assert.InDelta(t, 75.8577, point.Lng(), 1e-9)
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(kernel.LatitudeMax, kernel.LongitudeMin)
		require.NoError(t, err)

		_, err = kernel.NewGeoPoint(kernel.LatitudeMin, kernel.LongitudeMax)
		require.NoError(t, err)
	})

	t.Run("should reject latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.01, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.01)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject zero value point", func(t *testing.T) {
		var point kernel.GeoPoint

		require.Error(t, point.Validate())
	})
}

func TestGeoPoint_DistanceKmTo(t *testing.T) {
	t.Run("should return zero for identical points", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(22.7196, 75.8577)

		distance, err := point.DistanceKmTo(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, distance, 1e-9)
	})

	t.Run("should compute known city-to-city distance", func(t *testing.T) {
		// Indore to Bhopal is roughly 169 km great-circle.
		indore, _ := kernel.NewGeoPoint(22.7196, 75.8577)
		bhopal, _ := kernel.NewGeoPoint(23.2599, 77.4126)

		distance, err := indore.DistanceKmTo(bhopal)

		require.NoError(t, err)
		assert.InDelta(t, 169, distance, 3)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(10, 20)
		b, _ := kernel.NewGeoPoint(11, 21)

		ab, err := a.DistanceKmTo(b)
		require.NoError(t, err)
		ba, err := b.DistanceKmTo(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("should resolve distances near a 50 km threshold", func(t *testing.T) {
		origin, _ := kernel.NewGeoPoint(22.0, 75.0)
		near, _ := kernel.NewGeoPoint(22.0+degreesForKm(49.99), 75.0)
		far, _ := kernel.NewGeoPoint(22.0+degreesForKm(50.01), 75.0)

		nearDistance, err := origin.DistanceKmTo(near)
		require.NoError(t, err)
		farDistance, err := origin.DistanceKmTo(far)
		require.NoError(t, err)

		assert.Less(t, nearDistance, 50.0)
		assert.Greater(t, farDistance, 50.0)
	})

	t.Run("should fail for unconstructed point", func(t *testing.T) {
		var zero kernel.GeoPoint
		point, _ := kernel.NewGeoPoint(1, 1)

		_, err := point.DistanceKmTo(zero)

		require.Error(t, err)
	})
}
