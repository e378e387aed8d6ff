package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Details is the placement data of an order. It is fixed once the order
// exists; the lifecycle only moves State.
type Details struct {
	CustomerID       string
	CustomerName     string
	DeliveryAddress  string
	ProductID        kernel.UUID
	Quantity         int
	TotalAmountCents int64
	Notes            string

	// WarehouseID and Destination are nullable; dispatch reports orders
	// lacking them instead of assigning.
	WarehouseID *kernel.UUID
	Destination *kernel.Location
}

// State is the persisted lifecycle part of an order, used by RestoreOrder.
type State struct {
	Status           Status
	AgentID          *kernel.UUID
	ConfirmationCode ConfirmationCode
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeliveredAt      *time.Time
	Version          int64
}

// Order is the aggregate root of the fulfillment lifecycle.
//
// Invariant: agentID is set iff the status is ASSIGNED, PICKED_UP or
// OUT_FOR_DELIVERY. Every transition stamps updatedAt; delivery also
// stamps deliveredAt.
type Order struct {
	id      kernel.UUID
	details Details

	status           Status
	agentID          *kernel.UUID
	confirmationCode ConfirmationCode
	createdAt        time.Time
	updatedAt        time.Time
	deliveredAt      *time.Time

	// version is the optimistic concurrency token owned by the store.
	version int64

	isConstructed bool
}

// NewOrder places a new order in PENDING_ASSIGNMENT.
func NewOrder(id kernel.UUID, details Details, now time.Time) (*Order, error) {
	order := &Order{
		status:        PendingAssignment,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDetails(details),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rebuilds an order from storage, re-checking the invariants
// the store is expected to uphold.
func RestoreOrder(id kernel.UUID, details Details, state State) (*Order, error) {
	order := &Order{
		createdAt:        state.CreatedAt,
		updatedAt:        state.UpdatedAt,
		deliveredAt:      state.DeliveredAt,
		confirmationCode: state.ConfirmationCode,
		version:          state.Version,
		isConstructed:    true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDetails(details),
		order.setState(state.Status, state.AgentID),
	); err != nil {
		return nil, fmt.Errorf("restore order %s: %w", id, err)
	}

	return order, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) WarehouseID() *kernel.UUID {
	return o.details.WarehouseID
}

func (o *Order) Destination() *kernel.Location {
	return o.details.Destination
}

func (o *Order) ProductID() kernel.UUID {
	return o.details.ProductID
}

func (o *Order) Quantity() int {
	return o.details.Quantity
}

func (o *Order) Status() Status {
	return o.status
}

// AgentID returns nil unless the order is in flight.
func (o *Order) AgentID() *kernel.UUID {
	return o.agentID
}

func (o *Order) ConfirmationCode() ConfirmationCode {
	return o.confirmationCode
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Age is the time elapsed since placement, as seen at now.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.createdAt)
}

func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion is called by the store after a successful compare-and-set.
func (o *Order) AdvanceVersion() {
	o.version++
}

func (o *Order) IsAssignedTo(agentID kernel.UUID) bool {
	return o.agentID != nil && o.agentID.IsEqual(agentID)
}

// Assign binds the order to an agent: PENDING_ASSIGNMENT -> ASSIGNED.
func (o *Order) Assign(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.agentID = &agentID
	o.touch(now)
	return nil
}

// PickUp records the pickup and stores the code the customer must present
// on delivery: ASSIGNED -> PICKED_UP.
func (o *Order) PickUp(code ConfirmationCode, now time.Time) error {
	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	if _, err = ParseConfirmationCode(string(code)); err != nil {
		return err
	}

	o.status = newStatus
	o.confirmationCode = code
	o.touch(now)
	return nil
}

// SendOutForDelivery moves PICKED_UP -> OUT_FOR_DELIVERY.
func (o *Order) SendOutForDelivery(now time.Time) error {
	newStatus, err := o.status.SendOutForDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// Deliver completes the order when providedCode matches the pickup code:
// OUT_FOR_DELIVERY -> DELIVERED. The state is untouched on mismatch.
func (o *Order) Deliver(providedCode string, now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	if !o.confirmationCode.Matches(strings.TrimSpace(providedCode)) {
		return ErrInvalidConfirmationCode
	}

	deliveredAt := now
	o.status = newStatus
	o.agentID = nil
	o.deliveredAt = &deliveredAt
	o.touch(now)
	return nil
}

// Cancel is allowed before pickup only. The agent reference is cleared;
// releasing the agent itself is up to the caller.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.agentID = nil
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(details Details) error {
	if err := details.ProductID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}
	if details.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", details.Quantity))
	}
	if details.TotalAmountCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total amount", fmt.Errorf("%d is negative", details.TotalAmountCents))
	}
	if details.WarehouseID != nil {
		if err := details.WarehouseID.Validate(); err != nil {
			return err
		}
	}
	if details.Destination != nil {
		if err := details.Destination.Validate(); err != nil {
			return err
		}
	}
	o.details = details
	return nil
}

func (o *Order) setState(status Status, agentID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveAgent(agentID != nil); err != nil {
		return err
	}
	if agentID != nil {
		if err := agentID.Validate(); err != nil {
			return err
		}
	}
	o.status = status
	o.agentID = agentID
	return nil
}
