package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
	"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
)

// GetOrdersByStatusQuery lists orders for operators. Without a status it
// returns every order that is not yet delivered or cancelled.
type GetOrdersByStatusQuery struct {
	status *order.Status
	guard  guard.ConstructorGuard
}

func NewGetOrdersByStatusQuery(status *order.Status) (GetOrdersByStatusQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetOrdersByStatusQuery{}, err
		}
		s := *status
		status = &s
	}
	return GetOrdersByStatusQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

func (q GetOrdersByStatusQuery) Status() *order.Status {
	return q.status
}
