package queries_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/adapters/out/postgres/dbtest"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAgentsByStatusQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.OpenSQLite(t)
	repo := agentrepo.NewGormAgentRepository(db, nopTracker{})
	handler := queries.NewGetAgentsByStatusQueryHandler(db)

	loc := kernel.MustNewLocation(12.9716, 77.5946)
	add := func(name string, capacity kernel.Capacity, location *kernel.Location) *agent.Agent {
		a, err := agent.NewAgent(kernel.NewUUID(), name, "+91-9000000003", capacity, location)
		require.NoError(t, err)
		return a
	}

	zoya := add("Zoya", kernel.CapacityTwoWheeler, &loc)
	arjun := add("Arjun", kernel.CapacityFourWheeler, nil)
	busy := add("Bala", kernel.CapacityTwoWheeler, &loc)
	anchor := kernel.NewUUID()
	require.NoError(t, busy.Assign(anchor))

	for _, a := range []*agent.Agent{zoya, arjun, busy} {
		require.NoError(t, repo.Add(ctx, a))
	}

	t.Run("all agents sorted by name", func(t *testing.T) {
		query, err := queries.NewGetAgentsByStatusQuery(nil)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Arjun", got[0].Name)
		assert.Equal(t, "Bala", got[1].Name)
		assert.Equal(t, "Zoya", got[2].Name)
		assert.Nil(t, got[0].Location)
		assert.Equal(t, "FOUR_WHEELER", got[0].Capacity)
	})

	t.Run("filtered by status", func(t *testing.T) {
		status := agent.Assigned
		query, err := queries.NewGetAgentsByStatusQuery(&status)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, busy.ID(), got[0].ID)
		assert.Equal(t, "ASSIGNED", got[0].Status)
		require.NotNil(t, got[0].AssignedOrderID)
		assert.Equal(t, anchor, *got[0].AssignedOrderID)
		require.NotNil(t, got[0].Location)
	})

	t.Run("no match", func(t *testing.T) {
		status := agent.Offline
		query, err := queries.NewGetAgentsByStatusQuery(&status)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid status", func(t *testing.T) {
		status := agent.Unknown
		_, err := queries.NewGetAgentsByStatusQuery(&status)
		assert.Error(t, err)
	})

	t.Run("not constructed", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetAgentsByStatusQuery{})
		assert.ErrorIs(t, err, queries.ErrGetAgentsByStatusQueryIsNotConstructed)
	})
}
