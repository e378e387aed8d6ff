package catalogrepo_test

import (
	"context"
	"fmt"
	"testing"

	"dispatch/internal/adapters/out/postgres/catalogrepo"
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&catalogrepo.WarehouseDTO{}, &catalogrepo.ProductDTO{}))
	return db
}

func TestWarehouseRepository(t *testing.T) {
	ctx := context.Background()
	repo := catalogrepo.NewGormWarehouseRepository(openDB(t))

	loc := kernel.MustNewLocation(12.9716, 77.5946)
	located, err := catalog.NewWarehouse(kernel.NewUUID(), "Koramangala DC", &loc)
	require.NoError(t, err)
	unlocated, err := catalog.NewWarehouse(kernel.NewUUID(), "Legacy DC", nil)
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, located))
	require.NoError(t, repo.Add(ctx, unlocated))

	t.Run("get keeps coordinates", func(t *testing.T) {
		got, err := repo.Get(ctx, located.ID())
		require.NoError(t, err)
		require.NotNil(t, got.Location())
		assert.True(t, loc.IsEqual(*got.Location()))
		assert.Equal(t, "Koramangala DC", got.Name())
	})

	t.Run("get without coordinates", func(t *testing.T) {
		got, err := repo.Get(ctx, unlocated.ID())
		require.NoError(t, err)
		assert.Nil(t, got.Location())
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := repo.Get(ctx, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []kernel.UUID{located.ID(), kernel.NewUUID(), unlocated.ID()})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("find by no ids", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := catalogrepo.NewGormProductRepository(openDB(t))

	tea, err := catalog.NewProduct(kernel.NewUUID(), "Tea 100g", 100)
	require.NoError(t, err)
	rice, err := catalog.NewProduct(kernel.NewUUID(), "Rice 5kg", 5000)
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, tea))
	require.NoError(t, repo.Add(ctx, rice))

	got, err := repo.Get(ctx, rice.ID())
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, got.UnitWeightGrams(), 1e-9)
	assert.InDelta(t, 10.0, got.WeightKg(2), 1e-9)

	all, err := repo.FindByIDs(ctx, []kernel.UUID{tea.ID(), rice.ID()})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.Get(ctx, kernel.NewUUID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	err = repo.Add(ctx, tea)
	assert.Error(t, err)
}
