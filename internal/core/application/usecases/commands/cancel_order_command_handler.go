package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order before pickup. If the order was
// assigned, the agent is released (or re-anchored when other orders of its
// batch are still in flight).
type CancelOrderCommandHandler struct {
	lifecycle
}

func NewCancelOrderCommandHandler(deps LifecycleDeps) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{lifecycle: newLifecycle(deps, "cancel")}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
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

		agentID := o.AgentID()

		if err = o.Cancel(h.clock()); err != nil {
			return err
		}

		if err = orders.Update(ctx, o); err != nil {
			return err
		}

		if agentID != nil {
			if err = settleAgent(ctx, uow, *agentID); err != nil {
				return err
			}
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order cancelled", "order_id", result.ID().String())
	return result, nil
}
