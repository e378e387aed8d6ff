package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CodeGenerator issues confirmation codes at pickup.
type CodeGenerator func() (order.ConfirmationCode, error)

// MarkPickedUpCommandHandler moves an order ASSIGNED -> PICKED_UP, issues its
// confirmation code and puts the agent on delivery.
type MarkPickedUpCommandHandler struct {
	lifecycle
	codes CodeGenerator
}

func NewMarkPickedUpCommandHandler(deps LifecycleDeps, codes CodeGenerator) MarkPickedUpCommandHandler {
	if codes == nil {
		codes = order.NewConfirmationCode
	}
	return MarkPickedUpCommandHandler{
		lifecycle: newLifecycle(deps, "pickup"),
		codes:     codes,
	}
}

func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, command MarkPickedUpCommand) (*order.Order, error) {
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

		code, err := h.codes()
		if err != nil {
			return err
		}

		if err = o.PickUp(code, h.clock()); err != nil {
			return err
		}

		agents := uow.AgentRepository()
		a, err := agents.Get(ctx, *o.AgentID())
		if err != nil {
			return err
		}

		if err = a.StartDelivery(); err != nil {
			return err
		}

		if err = orders.Update(ctx, o); err != nil {
			return err
		}

		if err = agents.Update(ctx, a); err != nil {
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
