package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibilityFilter_Select(t *testing.T) {
	filter := services.NewEligibilityFilter(30*time.Second, kernel.NewCapacityClassifier(0.4))
	wh := kernel.NewUUID()

	old := newOrder(t, now.Add(-time.Minute), wh, warehouseLoc)
	exactlyGrace := newOrder(t, now.Add(-30*time.Second), wh, warehouseLoc)
	tooYoung := newOrder(t, now.Add(-29*time.Second), wh, warehouseLoc)
	assigned := newOrder(t, now.Add(-time.Hour), wh, warehouseLoc)
	require.NoError(t, assigned.Assign(kernel.NewUUID(), now))

	got := filter.Select([]*order.Order{exactlyGrace, tooYoung, assigned, old}, now)

	require.Len(t, got, 2)
	assert.True(t, got[0].IsEqual(old), "oldest first")
	assert.True(t, got[1].IsEqual(exactlyGrace), "age equal to grace period is eligible")
}

func TestEligibilityFilter_Select_TieBreakByID(t *testing.T) {
	filter := services.NewEligibilityFilter(0, kernel.NewCapacityClassifier(0.4))
	wh := kernel.NewUUID()

	a := newOrder(t, now, wh, warehouseLoc)
	b := newOrder(t, now, wh, warehouseLoc)

	first := filter.Select([]*order.Order{a, b}, now)
	second := filter.Select([]*order.Order{b, a}, now)

	require.Len(t, first, 2)
	assert.True(t, first[0].IsEqual(second[0]))
	assert.Negative(t, first[0].ID().Compare(first[1].ID()))
}

func TestEligibilityFilter_Resolve(t *testing.T) {
	filter := services.NewEligibilityFilter(30*time.Second, kernel.NewCapacityClassifier(0.4))

	located := newWarehouse(t, &warehouseLoc)
	unlocated := newWarehouse(t, nil)
	created := now.Add(-time.Minute)

	light := newOrder(t, created, located.ID(), north(warehouseLoc, 1))
	heavy := newOrder(t, created.Add(time.Second), located.ID(), north(warehouseLoc, 1))
	noCoords := newOrder(t, created.Add(2*time.Second), unlocated.ID(), north(warehouseLoc, 1))
	noWarehouse := newOrder(t, created.Add(3*time.Second), located.ID(), north(warehouseLoc, 1), withoutWarehouse())
	unknownWarehouse := newOrder(t, created.Add(4*time.Second), kernel.NewUUID(), north(warehouseLoc, 1))
	unknownProduct := newOrder(t, created.Add(5*time.Second), located.ID(), north(warehouseLoc, 1))

	cat := services.Catalog{
		Warehouses: map[kernel.UUID]*catalog.Warehouse{
			located.ID():   located,
			unlocated.ID(): unlocated,
		},
		Products: map[kernel.UUID]*catalog.Product{
			light.ProductID():            newProduct(t, light.ProductID(), 200),
			heavy.ProductID():            newProduct(t, heavy.ProductID(), 400),
			noCoords.ProductID():         newProduct(t, noCoords.ProductID(), 1),
			noWarehouse.ProductID():      newProduct(t, noWarehouse.ProductID(), 1),
			unknownWarehouse.ProductID(): newProduct(t, unknownWarehouse.ProductID(), 1),
		},
	}

	candidates, excluded := filter.Resolve(
		[]*order.Order{light, heavy, noCoords, noWarehouse, unknownWarehouse, unknownProduct}, cat, now)

	require.Len(t, candidates, 2)
	assert.True(t, candidates[0].Order.IsEqual(light))
	assert.Equal(t, kernel.CapacityTwoWheeler, candidates[0].Capacity)
	assert.InDelta(t, 0.2, candidates[0].WeightKg, 1e-9)
	assert.True(t, candidates[0].Warehouse.IsEqual(warehouseLoc))
	assert.Equal(t, kernel.CapacityFourWheeler, candidates[1].Capacity, "0.4 kg is the four-wheeler boundary")

	require.Len(t, excluded, 4)
	assert.True(t, excluded[0].OrderID.IsEqual(noCoords.ID()))
	require.ErrorIs(t, excluded[0].Err, services.ErrMissingGeoData)
	assert.Equal(t, "missing_geo_data", excluded[0].Reason())
	require.ErrorIs(t, excluded[1].Err, services.ErrMissingGeoData)
	require.ErrorIs(t, excluded[2].Err, errs.ErrObjectNotFound)
	assert.Equal(t, "not_found", excluded[2].Reason())
	require.ErrorIs(t, excluded[3].Err, errs.ErrObjectNotFound)
	assert.Contains(t, excluded[3].Err.Error(), unknownProduct.ProductID().String())
}
