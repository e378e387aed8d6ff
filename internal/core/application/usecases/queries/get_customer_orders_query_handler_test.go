package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/dbtest"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetCustomerOrdersQuery(t *testing.T) {
	_, err := queries.NewGetCustomerOrdersQuery("   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	query, err := queries.NewGetCustomerOrdersQuery(" cust-7 ")
	require.NoError(t, err)
	assert.Equal(t, "cust-7", query.CustomerID())
}

func TestGetCustomerOrdersQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.OpenSQLite(t)
	repo := orderrepo.NewGormOrderRepository(db, nopTracker{})
	handler := queries.NewGetCustomerOrdersQueryHandler(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	place := func(customerID string, createdAt time.Time) *order.Order {
		o, err := order.NewOrder(kernel.NewUUID(), order.Details{
			CustomerID:      customerID,
			DeliveryAddress: "Brigade Road",
			ProductID:       kernel.NewUUID(),
			Quantity:        1,
		}, createdAt)
		require.NoError(t, err)
		return o
	}

	older := place("cust-7", now.Add(-time.Hour))
	require.NoError(t, older.Cancel(now.Add(-30*time.Minute)))
	newer := place("cust-7", now)
	other := place("cust-8", now.Add(-time.Minute))

	for _, o := range []*order.Order{older, newer, other} {
		require.NoError(t, repo.Add(ctx, o))
	}

	t.Run("newest first with closed orders", func(t *testing.T) {
		query, err := queries.NewGetCustomerOrdersQuery("cust-7")
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID(), got[0].ID)
		assert.Equal(t, "PENDING_ASSIGNMENT", got[0].Status)
		assert.Equal(t, older.ID(), got[1].ID)
		assert.Equal(t, "CANCELLED", got[1].Status)
		assert.Equal(t, "cust-7", got[1].CustomerID)
	})

	t.Run("unknown customer", func(t *testing.T) {
		query, err := queries.NewGetCustomerOrdersQuery("cust-404")
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("not constructed", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetCustomerOrdersQuery{})
		assert.ErrorIs(t, err, queries.ErrGetCustomerOrdersQueryIsNotConstructed)
	})
}
