package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// AssignAgentCommandHandler moves an order PENDING_ASSIGNMENT -> ASSIGNED and
// the agent AVAILABLE -> ASSIGNED with the order as its batch anchor.
type AssignAgentCommandHandler struct {
	lifecycle
}

func NewAssignAgentCommandHandler(deps LifecycleDeps) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{lifecycle: newLifecycle(deps, "assign")}
}

func (h AssignAgentCommandHandler) Handle(ctx context.Context, command AssignAgentCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var result *order.Order
	err := h.inTransaction(ctx, func(ctx context.Context, uow UoW) error {
		orders := uow.OrderRepository()
		agents := uow.AgentRepository()

		o, err := orders.Get(ctx, command.OrderID())
		if err != nil {
			return err
		}

		a, err := agents.Get(ctx, command.AgentID())
		if err != nil {
			return err
		}

		if _, err = o.Status().Assign(); err != nil {
			return err
		}

		if err = a.Assign(o.ID()); err != nil {
			return err
		}

		if err = o.Assign(a.ID(), h.clock()); err != nil {
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

	h.logger.InfoContext(ctx, "order assigned manually", "order_id", result.ID().String(), "agent_id", command.AgentID().String())
	return result, nil
}
