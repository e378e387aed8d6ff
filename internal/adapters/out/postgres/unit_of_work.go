// Package postgres provides the GORM-based Unit of Work for the dispatch
// core. The same code runs on PostgreSQL in production and on SQLite in
// development and tests.
//
// A unit of work maintains the aggregates written during a business
// transaction so that their changes can be announced once the transaction is
// committed:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.AgentRepository().Update(ctx, a); err != nil {
//	    return err
//	}
//
//	if err := uow.Commit(ctx); err != nil {
//	    return err
//	}
//	publish(uow.ChangedOrders())
//
// Each UnitOfWork instance owns one transaction; goroutines must not share
// an instance.
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/adapters/out/postgres/catalogrepo"
	"dispatch/internal/adapters/out/postgres/dberrors"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory hands out a fresh unit of work per operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the order,
// agent and catalog repositories.
//
// Repositories obtained before Begin use the plain connection; repositories
// obtained after Begin are bound to the transaction.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
	committed         bool
}

var _ ports.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)

// Begin opens the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return dberrors.Translate("transaction", "begin", tx.Error)
	}

	uow.tx = tx
	uow.committed = false
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit makes the tracked changes durable. Write conflicts detected by the
// database at commit time surface as errs.ErrConcurrentModification.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return dberrors.Translate("transaction", "commit", err)
	}

	uow.committed = true
	return nil
}

// Rollback discards the transaction. It is a no-op once the transaction has
// been committed or when none was begun, so it can always be deferred.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AgentRepository() ports.AgentRepository {
	return agentrepo.NewGormAgentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) WarehouseRepository() ports.WarehouseRepository {
	return catalogrepo.NewGormWarehouseRepository(uow.conn())
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return catalogrepo.NewGormProductRepository(uow.conn())
}

// TrackAggregate is called by the repositories on every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// ChangedOrders lists each order written in the committed transaction once,
// in first-write order. It is empty before Commit succeeds.
func (uow *GormUnitOfWork) ChangedOrders() []*order.Order {
	if !uow.committed {
		return nil
	}

	seen := make(map[kernel.UUID]int, len(uow.trackedAggregates))
	changed := make([]*order.Order, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		o, ok := tracked.Aggregate.(*order.Order)
		if !ok {
			continue
		}
		if idx, dup := seen[tracked.ID]; dup {
			changed[idx] = o
			continue
		}
		seen[tracked.ID] = len(changed)
		changed = append(changed, o)
	}

	return changed
}
