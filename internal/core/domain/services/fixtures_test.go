package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var (
	now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Warehouse in Bangalore; 0.009 degrees of latitude is roughly 1 km.
	warehouseLoc = kernel.MustNewLocation(12.9716, 77.5946)
)

const kmInLatDegrees = 1 / 111.195

func north(from kernel.Location, km float64) kernel.Location {
	return kernel.MustNewLocation(from.Latitude()+km*kmInLatDegrees, from.Longitude())
}

type orderOpt func(*order.Details)

func withoutDestination() orderOpt {
	return func(d *order.Details) { d.Destination = nil }
}

func withoutWarehouse() orderOpt {
	return func(d *order.Details) { d.WarehouseID = nil }
}

func newOrder(t *testing.T, createdAt time.Time, warehouseID kernel.UUID, dest kernel.Location, opts ...orderOpt) *order.Order {
	t.Helper()
	details := order.Details{
		CustomerID:      "c",
		DeliveryAddress: "somewhere",
		ProductID:       kernel.NewUUID(),
		Quantity:        1,
		WarehouseID:     &warehouseID,
		Destination:     &dest,
	}
	for _, opt := range opts {
		opt(&details)
	}
	o, err := order.NewOrder(kernel.NewUUID(), details, createdAt)
	require.NoError(t, err)
	return o
}

func candidate(t *testing.T, createdAt time.Time, dest kernel.Location, capacity kernel.Capacity, opts ...orderOpt) services.Candidate {
	t.Helper()
	weight := 0.2
	if capacity == kernel.CapacityFourWheeler {
		weight = 2
	}
	return services.Candidate{
		Order:     newOrder(t, createdAt, kernel.NewUUID(), dest, opts...),
		Warehouse: warehouseLoc,
		WeightKg:  weight,
		Capacity:  capacity,
	}
}

func newAgentAt(t *testing.T, id string, loc *kernel.Location, capacity kernel.Capacity) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(kernel.MustUUIDFromString(id), "agent "+id[len(id)-2:], "", capacity, loc)
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T {
	return &v
}

func newWarehouse(t *testing.T, loc *kernel.Location) *catalog.Warehouse {
	t.Helper()
	w, err := catalog.NewWarehouse(kernel.NewUUID(), "wh", loc)
	require.NoError(t, err)
	return w
}

func newProduct(t *testing.T, id kernel.UUID, grams float64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(id, "p", grams)
	require.NoError(t, err)
	return p
}
