package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// MarkOutForDeliveryCommandHandler moves an order PICKED_UP -> OUT_FOR_DELIVERY.
type MarkOutForDeliveryCommandHandler struct {
	lifecycle
}

func NewMarkOutForDeliveryCommandHandler(deps LifecycleDeps) MarkOutForDeliveryCommandHandler {
	return MarkOutForDeliveryCommandHandler{lifecycle: newLifecycle(deps, "out-for-delivery")}
}

func (h MarkOutForDeliveryCommandHandler) Handle(
	ctx context.Context,
	command MarkOutForDeliveryCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var result *order.Order
	err := h.inTransaction(ctx, func(ctx context.Context, uow UoW) error {
		orders := uow.OrderRepository()

		o, err := orders.Get(ctx, command.OrderID())
		if err != nil {
			return err
		}

		if err = o.SendOutForDelivery(h.clock()); err != nil {
			return err
		}

		if err = orders.Update(ctx, o); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
