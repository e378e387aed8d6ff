package ports

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
)

// AgentRepository is the store of delivery agents. Update follows the same
// compare-and-set contract as OrderRepository.Update.
type AgentRepository interface {
	Add(ctx context.Context, aggregate *agent.Agent) error
	Update(ctx context.Context, aggregate *agent.Agent) error
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// FindByStatus returns agents ordered by id.
	FindByStatus(ctx context.Context, status agent.Status) ([]*agent.Agent, error)
}
