package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetAgentsByStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetAgentsByStatusQueryHandler(db *gorm.DB) GetAgentsByStatusQueryHandler {
	return GetAgentsByStatusQueryHandler{db: db}
}

// Handle returns agents sorted by name, then id.
func (h GetAgentsByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetAgentsByStatusQuery,
) ([]AgentResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT` + agentColumns + `
		FROM delivery_agents`
	args := make([]any, 0, 1)
	if status := query.Status(); status != nil {
		sqlQuery += `
		WHERE status = ?`
		args = append(args, status.String())
	}
	sqlQuery += `
		ORDER BY name, id`

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]AgentResponse, 0)
	for rows.Next() {
		resp, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
