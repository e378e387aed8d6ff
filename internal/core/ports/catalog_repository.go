package ports

import (
	"context"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
)

// WarehouseRepository is a read-only accessor owned by the catalog.
type WarehouseRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*catalog.Warehouse, error)
	// FindByIDs silently skips unknown ids.
	FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Warehouse, error)
}

// ProductRepository is a read-only accessor owned by the catalog.
type ProductRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error)
	FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Product, error)
}
