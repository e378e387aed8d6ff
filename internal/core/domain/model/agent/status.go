package agent

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the availability of a delivery agent.
type Status int

const (
	Unknown Status = iota
	Available
	Assigned
	OnDelivery
	Offline
)

const entityName = "agent"

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Available:  "AVAILABLE",
		Assigned:   "ASSIGNED",
		OnDelivery: "ON_DELIVERY",
		Offline:    "OFFLINE",
	}
}

func (s Status) Validate() error {
	if s <= Unknown || s > Offline {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid agent status", s))
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
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid agent status", s))
}

// IsBusy reports whether the agent carries at least one order.
func (s Status) IsBusy() bool {
	return s == Assigned || s == OnDelivery
}

func (s Status) Assign() (Status, error) {
	if s != Available {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), "assign")
	}
	return Assigned, nil
}

// StartDelivery is idempotent for an agent already on delivery, so that the
// remaining orders of a batch can be picked up one by one.
func (s Status) StartDelivery() (Status, error) {
	if !s.IsBusy() {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), "start delivery")
	}
	return OnDelivery, nil
}

func (s Status) Release() (Status, error) {
	if !s.IsBusy() {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), "release")
	}
	return Available, nil
}

// SetAvailability switches an idle agent between AVAILABLE and OFFLINE.
// A busy agent keeps its status until its batch is done.
func (s Status) SetAvailability(target Status) (Status, error) {
	if target != Available && target != Offline {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s cannot be set directly", target))
	}
	if s.IsBusy() {
		return Unknown, errs.NewInvalidStateTransitionError(entityName, s.String(), "set "+target.String())
	}
	return target, nil
}
