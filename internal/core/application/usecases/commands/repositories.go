// Package commands contains the operations that change dispatch state: the
// periodic dispatch pass and the manual order lifecycle operations. Every
// state change runs inside a unit of work and is announced after commit.
package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	CatalogRepoFactory interface {
		WarehouseRepository() ports.WarehouseRepository
		ProductRepository() ports.ProductRepository
	}

	// ChangeTracker exposes the orders written in a unit of work so they can
	// be published once the transaction is committed.
	ChangeTracker interface {
		ChangedOrders() []*order.Order
	}

	// UoW spans orders, agents and the catalog in one transaction.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	// ... repository calls
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
		CatalogRepoFactory
		ChangeTracker
	}

	UoWFactory interface {
		Create() UoW
	}
)

// UoWFactoryFunc adapts a plain function to UoWFactory.
type UoWFactoryFunc func() UoW

func (f UoWFactoryFunc) Create() UoW {
	return f()
}

// Clock returns the current time. Handlers never call time.Now directly.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// DefaultStoreTimeout bounds every store round-trip of a command.
const DefaultStoreTimeout = 5 * time.Second
