package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/pkg/guard"
)

var ErrGetAgentsByStatusQueryIsNotConstructed = errors.New(
	"GetAgentsByStatusQuery must be created via NewGetAgentsByStatusQuery constructor",
)

// GetAgentsByStatusQuery lists agents, optionally narrowed to one status.
//
//	status := agent.Available
//	query, err := NewGetAgentsByStatusQuery(&status)
//	agents, err := handler.Handle(ctx, query)
type GetAgentsByStatusQuery struct {
	status *agent.Status
	guard  guard.ConstructorGuard
}

// NewGetAgentsByStatusQuery lists every agent when status is nil.
func NewGetAgentsByStatusQuery(status *agent.Status) (GetAgentsByStatusQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetAgentsByStatusQuery{}, err
		}
		s := *status
		status = &s
	}
	return GetAgentsByStatusQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAgentsByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentsByStatusQueryIsNotConstructed)
}

func (q GetAgentsByStatusQuery) Status() *agent.Status {
	return q.status
}
