package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetAgentQueryHandler struct {
	db *gorm.DB
}

func NewGetAgentQueryHandler(db *gorm.DB) GetAgentQueryHandler {
	return GetAgentQueryHandler{db: db}
}

// Handle fails with errs.ErrObjectNotFound for unknown agents.
func (h GetAgentQueryHandler) Handle(ctx context.Context, query GetAgentQuery) (*AgentResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT`+agentColumns+`
		FROM delivery_agents
		WHERE id = ?
	`, query.AgentID().Bytes()).Row()

	resp, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("agent", query.AgentID().String())
	}
	if err != nil {
		return nil, err
	}

	return &resp, nil
}
