package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand adds a delivery agent. New agents are AVAILABLE.
type RegisterAgentCommand struct {
	agentID  kernel.UUID
	name     string
	phone    string
	capacity kernel.Capacity
	location *kernel.Location

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand accepts a nil location; such an agent is never
// picked by dispatch until its position is known.
func NewRegisterAgentCommand(
	agentID kernel.UUID,
	name, phone string,
	capacity kernel.Capacity,
	location *kernel.Location,
) (RegisterAgentCommand, error) {
	name = strings.TrimSpace(name)

	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}

	if err := errors.Join(requireID("agent id", agentID), nameErr, capacity.Validate()); err != nil {
		return RegisterAgentCommand{}, err
	}

	if location != nil {
		loc := *location
		location = &loc
	}

	return RegisterAgentCommand{
		agentID:  agentID,
		name:     name,
		phone:    strings.TrimSpace(phone),
		capacity: capacity,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c *RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c RegisterAgentCommand) Name() string {
	return c.name
}

func (c RegisterAgentCommand) Phone() string {
	return c.phone
}

func (c RegisterAgentCommand) Capacity() kernel.Capacity {
	return c.capacity
}

func (c RegisterAgentCommand) Location() *kernel.Location {
	return c.location
}
