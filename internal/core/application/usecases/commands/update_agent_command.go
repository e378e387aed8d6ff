package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateAgentCommandIsNotConstructed = errors.New(
	"UpdateAgentCommand must be created via NewUpdateAgentCommand constructor",
)

// AgentChanges lists the fields to change; nil fields stay as they are.
// Name and Phone are changed together.
type AgentChanges struct {
	Name     *string
	Phone    *string
	Location *kernel.Location
	Status   *agent.Status
}

// UpdateAgentCommand applies a position report, a shift change or a contact
// change to one agent.
type UpdateAgentCommand struct {
	agentID kernel.UUID
	changes AgentChanges

	guard guard.ConstructorGuard
}

func NewUpdateAgentCommand(agentID kernel.UUID, changes AgentChanges) (UpdateAgentCommand, error) {
	var errList []error
	errList = append(errList, requireID("agent id", agentID))

	if changes.Name == nil && changes.Phone == nil && changes.Location == nil && changes.Status == nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("changes", errors.New("nothing to update")))
	}
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			errList = append(errList, errs.NewValueIsRequiredError("name"))
		}
		changes.Name = &name
	}
	if changes.Phone != nil {
		phone := strings.TrimSpace(*changes.Phone)
		changes.Phone = &phone
	}
	if changes.Location != nil {
		loc := *changes.Location
		errList = append(errList, loc.Validate())
		changes.Location = &loc
	}
	if changes.Status != nil {
		status := *changes.Status
		if status != agent.Available && status != agent.Offline {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"status", fmt.Errorf("%s cannot be set directly", status)))
		}
		changes.Status = &status
	}

	if err := errors.Join(errList...); err != nil {
		return UpdateAgentCommand{}, err
	}

	return UpdateAgentCommand{
		agentID: agentID,
		changes: changes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c *UpdateAgentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAgentCommandIsNotConstructed)
}

func (c UpdateAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c UpdateAgentCommand) Changes() AgentChanges {
	return c.changes
}
