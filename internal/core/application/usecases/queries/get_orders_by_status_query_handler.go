package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetOrdersByStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersByStatusQueryHandler(db *gorm.DB) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{db: db}
}

// Handle returns orders oldest first, the order dispatch considers them in.
func (h GetOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByStatusQuery,
) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT` + orderSummaryColumns + `
		FROM orders`
	var args []any
	if status := query.Status(); status != nil {
		sqlQuery += `
		WHERE status = ?`
		args = append(args, status.String())
	} else {
		sqlQuery += `
		WHERE status NOT IN (?, ?)`
		args = append(args, order.Delivered.String(), order.Cancelled.String())
	}
	sqlQuery += `
		ORDER BY created_at, id`

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}

	return collectOrderSummaries(rows)
}
