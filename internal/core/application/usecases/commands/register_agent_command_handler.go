package commands

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
)

type RegisterAgentCommandHandler struct {
	lifecycle
}

func NewRegisterAgentCommandHandler(deps LifecycleDeps) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{lifecycle: newLifecycle(deps, "register_agent")}
}

func (h RegisterAgentCommandHandler) Handle(ctx context.Context, command RegisterAgentCommand) (*agent.Agent, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	a, err := agent.NewAgent(command.AgentID(), command.Name(), command.Phone(), command.Capacity(), command.Location())
	if err != nil {
		return nil, err
	}

	err = h.inTransaction(ctx, func(ctx context.Context, uow UoW) error {
		return uow.AgentRepository().Add(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "agent registered", "agent_id", a.ID().String(), "capacity", a.Capacity().String())
	return a, nil
}
