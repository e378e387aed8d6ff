package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler stores a new order after checking that its
// product and warehouse exist. Geo data may still be missing; dispatch
// reports such orders instead of assigning them.
type PlaceOrderCommandHandler struct {
	lifecycle
}

func NewPlaceOrderCommandHandler(deps LifecycleDeps) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{lifecycle: newLifecycle(deps, "place_order")}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	details := command.Details()

	var result *order.Order
	err := h.inTransaction(ctx, func(ctx context.Context, uow UoW) error {
		if _, err := uow.ProductRepository().Get(ctx, details.ProductID); err != nil {
			return err
		}
		if details.WarehouseID != nil {
			if _, err := uow.WarehouseRepository().Get(ctx, *details.WarehouseID); err != nil {
				return err
			}
		}

		o, err := order.NewOrder(command.OrderID(), details, h.clock())
		if err != nil {
			return err
		}

		if err = uow.OrderRepository().Add(ctx, o); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed", "order_id", result.ID().String())
	return result, nil
}
