package commands

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
)

// UpdateAgentCommandHandler writes the agent back under its version, so an
// update racing a dispatch pass fails with a concurrent modification error
// instead of overwriting the assignment.
type UpdateAgentCommandHandler struct {
	lifecycle
}

func NewUpdateAgentCommandHandler(deps LifecycleDeps) UpdateAgentCommandHandler {
	return UpdateAgentCommandHandler{lifecycle: newLifecycle(deps, "update_agent")}
}

func (h UpdateAgentCommandHandler) Handle(ctx context.Context, command UpdateAgentCommand) (*agent.Agent, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var updated *agent.Agent
	err := h.inTransaction(ctx, func(ctx context.Context, uow UoW) error {
		a, err := uow.AgentRepository().Get(ctx, command.AgentID())
		if err != nil {
			return err
		}

		if err := applyAgentChanges(a, command.Changes()); err != nil {
			return err
		}

		if err := uow.AgentRepository().Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "agent updated",
		"agent_id", updated.ID().String(),
		"status", updated.Status().String(),
	)
	return updated, nil
}

func applyAgentChanges(a *agent.Agent, changes AgentChanges) error {
	if changes.Name != nil || changes.Phone != nil {
		name, phone := a.Name(), a.Phone()
		if changes.Name != nil {
			name = *changes.Name
		}
		if changes.Phone != nil {
			phone = *changes.Phone
		}
		if err := a.UpdateContact(name, phone); err != nil {
			return err
		}
	}
	if changes.Location != nil {
		if err := a.MoveTo(*changes.Location); err != nil {
			return err
		}
	}
	if changes.Status != nil {
		if err := a.ChangeAvailability(*changes.Status); err != nil {
			return err
		}
	}
	return nil
}
