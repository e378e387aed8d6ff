package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand manually binds a pending order to an available agent,
// bypassing the dispatch pass.
type AssignAgentCommand struct {
	orderID kernel.UUID
	agentID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewAssignAgentCommand(orderID, agentID kernel.UUID) (AssignAgentCommand, error) {
	if err := errors.Join(requireID("order id", orderID), requireID("agent id", agentID)); err != nil {
		return AssignAgentCommand{}, err
	}
	return AssignAgentCommand{
		orderID: orderID,
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignAgentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c *AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}
