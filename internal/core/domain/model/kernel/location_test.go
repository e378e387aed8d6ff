package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantErr   error
	}{
		{name: "bangalore", latitude: 12.9716, longitude: 77.5946},
		{name: "poles and antimeridian", latitude: 90, longitude: -180},
		{name: "latitude too large", latitude: 90.5, longitude: 0, wantErr: errs.ErrValueIsOutOfRange},
		{name: "longitude too small", latitude: 0, longitude: -180.1, wantErr: errs.ErrValueIsOutOfRange},
		{name: "nan latitude", latitude: math.NaN(), longitude: 0, wantErr: errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.latitude, tt.longitude)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.latitude, loc.Latitude(), 0)
			assert.InDelta(t, tt.longitude, loc.Longitude(), 0)
		})
	}

	t.Run("reports both invalid coordinates", func(t *testing.T) {
		_, err := kernel.NewLocation(100, 200)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location
	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)
}

func TestDistanceKm(t *testing.T) {
	t.Run("identical points are zero apart", func(t *testing.T) {
		assert.InDelta(t, 0.0, kernel.DistanceKm(12.97, 77.59, 12.97, 77.59), 1e-12)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := kernel.DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
		ba := kernel.DistanceKm(13.0827, 80.2707, 12.9716, 77.5946)
		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		assert.InDelta(t, 111.195, kernel.DistanceKm(0, 0, 0, 1), 0.01)
	})

	t.Run("antipodes are half the circumference apart", func(t *testing.T) {
		assert.InDelta(t, math.Pi*kernel.EarthRadiusKm, kernel.DistanceKm(0, 0, 0, 180), 1e-6)
	})

	t.Run("nan propagates", func(t *testing.T) {
		assert.True(t, math.IsNaN(kernel.DistanceKm(math.NaN(), 0, 0, 0)))
	})

	t.Run("location method matches function", func(t *testing.T) {
		a := kernel.MustNewLocation(12.9716, 77.5946)
		b := kernel.MustNewLocation(12.9352, 77.6245)
		assert.InDelta(t, kernel.DistanceKm(12.9716, 77.5946, 12.9352, 77.6245), a.DistanceKm(b), 1e-12)
	})
}
