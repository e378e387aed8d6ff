package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
)

// DeliverOrderCommandHandler completes an order OUT_FOR_DELIVERY -> DELIVERED
// after checking the confirmation code, then settles the agent.
type DeliverOrderCommandHandler struct {
	lifecycle
}

func NewDeliverOrderCommandHandler(deps LifecycleDeps) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{lifecycle: newLifecycle(deps, "deliver")}
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, command DeliverOrderCommand) (*order.Order, error) {
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

		if err = o.Deliver(command.Code(), h.clock()); err != nil {
			if errors.Is(err, order.ErrInvalidConfirmationCode) {
				h.logger.WarnContext(ctx, "confirmation code mismatch", "order_id", o.ID().String())
			}
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

	return result, nil
}
