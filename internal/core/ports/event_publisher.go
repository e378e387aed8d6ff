package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed order transitions to the outside
// world. Callers treat failures as non-fatal.
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, orders ...*order.Order) error
}
