package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the position of an order in its lifecycle.
//
//	PENDING_ASSIGNMENT -> ASSIGNED -> PICKED_UP -> OUT_FOR_DELIVERY -> DELIVERED
//	PENDING_ASSIGNMENT | ASSIGNED -> CANCELLED
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	PendingAssignment
	Assigned
	PickedUp
	OutForDelivery
	Delivered
	Cancelled
)

const entityName = "order"

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		PendingAssignment: "PENDING_ASSIGNMENT",
		Assigned:          "ASSIGNED",
		PickedUp:          "PICKED_UP",
		OutForDelivery:    "OUT_FOR_DELIVERY",
		Delivered:         "DELIVERED",
		Cancelled:         "CANCELLED",
	}
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsInFlight reports whether an agent is currently bound to the order.
func (s Status) IsInFlight() bool {
	return s == Assigned || s == PickedUp || s == OutForDelivery
}

// ValidateCanHaveAgent checks the agent reference against the status:
// in-flight orders must carry one, every other status must not.
func (s Status) ValidateCanHaveAgent(hasAgent bool) error {
	if hasAgent && !s.IsInFlight() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have an agent", s),
		)
	}

	if !hasAgent && s.IsInFlight() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no agent", s),
		)
	}

	return nil
}

func (s Status) Assign() (Status, error) {
	return s.transition(PendingAssignment, Assigned, "assign")
}

func (s Status) PickUp() (Status, error) {
	return s.transition(Assigned, PickedUp, "pick up")
}

func (s Status) SendOutForDelivery() (Status, error) {
	return s.transition(PickedUp, OutForDelivery, "send out for delivery")
}

func (s Status) Deliver() (Status, error) {
	return s.transition(OutForDelivery, Delivered, "deliver")
}

func (s Status) Cancel() (Status, error) {
	if s != PendingAssignment && s != Assigned {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), "cancel")
	}
	return Cancelled, nil
}

func (s Status) transition(from, to Status, action string) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), action)
	}
	return to, nil
}
