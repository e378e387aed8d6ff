package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand takes a new order into dispatch. The order starts in
// PENDING_ASSIGNMENT and becomes eligible once it is older than the grace
// period.
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), order.Details{
//	    CustomerID:      "cust-42",
//	    DeliveryAddress: "12 MG Road",
//	    ProductID:       productID,
//	    Quantity:        2,
//	    WarehouseID:     &warehouseID,
//	    Destination:     &destination,
//	})
type PlaceOrderCommand struct {
	orderID kernel.UUID
	details order.Details

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(orderID kernel.UUID, details order.Details) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDetails(details),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c *PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Details() order.Details {
	return c.details
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := requireID("order id", orderID); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setDetails(details order.Details) error {
	details.CustomerID = strings.TrimSpace(details.CustomerID)
	details.DeliveryAddress = strings.TrimSpace(details.DeliveryAddress)

	var errList []error
	if details.CustomerID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customer id"))
	}
	if details.DeliveryAddress == "" {
		errList = append(errList, errs.NewValueIsRequiredError("delivery address"))
	}
	errList = append(errList, requireID("product id", details.ProductID))
	if details.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", details.Quantity),
		))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.details = details
	return nil
}
