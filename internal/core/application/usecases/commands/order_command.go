package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOrderCommandIsNotConstructed = errors.New(
	"order lifecycle command must be created via its constructor",
)

// orderCommand is the payload shared by the single-order lifecycle commands.
type orderCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func newOrderCommand(orderID kernel.UUID) (orderCommand, error) {
	if err := requireID("order id", orderID); err != nil {
		return orderCommand{}, err
	}
	return orderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c orderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *orderCommand) Validate() error {
	return c.guard.Validate(ErrOrderCommandIsNotConstructed)
}

// MarkPickedUpCommand records that the agent collected the order.
type MarkPickedUpCommand struct{ orderCommand }

func NewMarkPickedUpCommand(orderID kernel.UUID) (MarkPickedUpCommand, error) {
	c, err := newOrderCommand(orderID)
	return MarkPickedUpCommand{c}, err
}

// MarkOutForDeliveryCommand records that the agent left for the customer.
type MarkOutForDeliveryCommand struct{ orderCommand }

func NewMarkOutForDeliveryCommand(orderID kernel.UUID) (MarkOutForDeliveryCommand, error) {
	c, err := newOrderCommand(orderID)
	return MarkOutForDeliveryCommand{c}, err
}

// CancelOrderCommand cancels an order that has not been picked up yet.
type CancelOrderCommand struct{ orderCommand }

func NewCancelOrderCommand(orderID kernel.UUID) (CancelOrderCommand, error) {
	c, err := newOrderCommand(orderID)
	return CancelOrderCommand{c}, err
}

// DeliverOrderCommand completes an order against the customer's code.
type DeliverOrderCommand struct {
	orderCommand
	code string
}

func NewDeliverOrderCommand(orderID kernel.UUID, code string) (DeliverOrderCommand, error) {
	c, err := newOrderCommand(orderID)
	return DeliverOrderCommand{orderCommand: c, code: code}, err
}

func (c DeliverOrderCommand) Code() string {
	return c.code
}
