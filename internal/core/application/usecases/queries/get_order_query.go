// Package queries contains the read side of the dispatch service. Handlers
// read straight from the database into read models and never load
// aggregates.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads the customer-facing details of one order.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order read model. ConfirmationCode is shown
// to the customer so it can be handed to the agent at the door.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	CustomerID       string
	CustomerName     string
	DeliveryAddress  string
	ProductID        kernel.UUID
	Quantity         int
	TotalAmountCents int64
	Notes            string
	Status           string
	AgentID          *kernel.UUID
	ConfirmationCode string
	WarehouseID      *kernel.UUID
	Destination      *kernel.Location
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeliveredAt      *time.Time
}
