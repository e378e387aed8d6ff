// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, the event sink and the
// pass lock.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository is the store of order aggregates.
//
// Update is a compare-and-set on the aggregate's version: it fails with
// errs.ErrConcurrentModification when the stored version moved since the
// aggregate was read, and with errs.ErrObjectNotFound when the row is gone.
// On success the aggregate's version is advanced.
type OrderRepository interface {
	Add(ctx context.Context, aggregate *order.Order) error
	Update(ctx context.Context, aggregate *order.Order) error

	// Get fails with errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindByStatus returns orders ordered by creation time, then id.
	FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// FindInFlightByAgent returns the ASSIGNED, PICKED_UP and OUT_FOR_DELIVERY
	// orders bound to the agent, oldest first.
	FindInFlightByAgent(ctx context.Context, agentID kernel.UUID) ([]*order.Order, error)
}
