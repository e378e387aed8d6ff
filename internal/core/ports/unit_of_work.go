package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates a UnitOfWork per command or per cluster.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained
// before Begin read outside of any transaction; after Begin they are bound
// to it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is a no-op after Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	AgentRepository() AgentRepository
	WarehouseRepository() WarehouseRepository
	ProductRepository() ProductRepository

	// ChangedOrders lists the orders written through this unit of work, in
	// write order. Only meaningful after a successful Commit.
	ChangedOrders() []*order.Order
}
