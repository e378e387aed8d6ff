package catalog_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_WeightKg(t *testing.T) {
	p, err := catalog.NewProduct(kernel.NewUUID(), "Paneer 200g", 200)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, p.WeightKg(1), 1e-9)
	assert.InDelta(t, 0.6, p.WeightKg(3), 1e-9)
}

func TestNewProduct_RejectsInvalidWeight(t *testing.T) {
	for _, w := range []float64{-1, math.NaN()} {
		_, err := catalog.NewProduct(kernel.NewUUID(), "x", w)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	}
}

func TestWarehouse_RequireLocation(t *testing.T) {
	t.Run("with coordinates", func(t *testing.T) {
		loc := kernel.MustNewLocation(12.9, 77.6)
		w, err := catalog.NewWarehouse(kernel.NewUUID(), "Indiranagar", &loc)
		require.NoError(t, err)

		got, err := w.RequireLocation()
		require.NoError(t, err)
		assert.True(t, loc.IsEqual(got))
	})

	t.Run("without coordinates", func(t *testing.T) {
		w, err := catalog.NewWarehouse(kernel.NewUUID(), "Unknown", nil)
		require.NoError(t, err)

		_, err = w.RequireLocation()
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects zero value location", func(t *testing.T) {
		_, err := catalog.NewWarehouse(kernel.NewUUID(), "Broken", &kernel.Location{})
		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}
