package agent

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent")

// Agent is a delivery agent with a vehicle tier and a last known position.
//
// While busy the agent points at the anchor order of its current batch. The
// rest of the batch is not stored here: it is every order whose agent
// reference equals this agent's id.
type Agent struct {
	id       kernel.UUID
	name     string
	phone    string
	capacity kernel.Capacity
	status   Status

	// location is nil until the first position report.
	location *kernel.Location

	assignedOrderID *kernel.UUID
	version         int64

	isConstructed bool
}

// NewAgent registers an AVAILABLE agent.
func NewAgent(id kernel.UUID, name, phone string, capacity kernel.Capacity, location *kernel.Location) (*Agent, error) {
	agent := &Agent{
		status:        Available,
		phone:         strings.TrimSpace(phone),
		isConstructed: true,
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setCapacity(capacity),
		agent.setLocation(location),
	); err != nil {
		return nil, err
	}

	return agent, nil
}

// RestoreAgent rebuilds an agent from storage.
func RestoreAgent(
	id kernel.UUID,
	name string,
	phone string,
	capacity kernel.Capacity,
	status Status,
	location *kernel.Location,
	assignedOrderID *kernel.UUID,
	version int64,
) (*Agent, error) {
	agent := &Agent{
		phone:         phone,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setCapacity(capacity),
		agent.setLocation(location),
		agent.setState(status, assignedOrderID),
	); err != nil {
		return nil, fmt.Errorf("restore agent %s: %w", id, err)
	}

	return agent, nil
}

func (a *Agent) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAgentIsNotConstructed
	}
	return nil
}

func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

func (a *Agent) ID() kernel.UUID {
	return a.id
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Phone() string {
	return a.phone
}

func (a *Agent) Capacity() kernel.Capacity {
	return a.capacity
}

func (a *Agent) Status() Status {
	return a.status
}

func (a *Agent) Location() *kernel.Location {
	return a.location
}

// AssignedOrderID is the anchor order of the current batch, nil when idle.
func (a *Agent) AssignedOrderID() *kernel.UUID {
	return a.assignedOrderID
}

func (a *Agent) Version() int64 {
	return a.version
}

func (a *Agent) AdvanceVersion() {
	a.version++
}

// CanCarry reports whether the agent's vehicle tier matches the load tier.
func (a *Agent) CanCarry(capacity kernel.Capacity) bool {
	return a.capacity == capacity
}

// DistanceKmTo returns the haversine distance to target. The second value is
// false when the agent has no known position.
func (a *Agent) DistanceKmTo(target kernel.Location) (float64, bool) {
	if a.location == nil {
		return 0, false
	}
	return a.location.DistanceKm(target), true
}

// Assign starts a new batch anchored at anchorOrderID: AVAILABLE -> ASSIGNED.
func (a *Agent) Assign(anchorOrderID kernel.UUID) error {
	if err := anchorOrderID.Validate(); err != nil {
		return err
	}

	newStatus, err := a.status.Assign()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.assignedOrderID = &anchorOrderID
	return nil
}

// StartDelivery is called on pickup: ASSIGNED | ON_DELIVERY -> ON_DELIVERY.
func (a *Agent) StartDelivery() error {
	newStatus, err := a.status.StartDelivery()
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// Release frees the agent once its batch has no order left in flight.
func (a *Agent) Release() error {
	newStatus, err := a.status.Release()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.assignedOrderID = nil
	return nil
}

// ChangeAvailability takes an idle agent off shift (OFFLINE) or back on
// shift (AVAILABLE).
func (a *Agent) ChangeAvailability(target Status) error {
	newStatus, err := a.status.SetAvailability(target)
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

// MoveTo records a position report. Allowed in every status.
func (a *Agent) MoveTo(location kernel.Location) error {
	return a.setLocation(&location)
}

func (a *Agent) UpdateContact(name, phone string) error {
	if err := a.setName(name); err != nil {
		return err
	}
	a.phone = strings.TrimSpace(phone)
	return nil
}

// Reanchor moves the batch anchor to another in-flight order of the batch.
func (a *Agent) Reanchor(orderID kernel.UUID) error {
	if !a.status.IsBusy() {
		return errs.NewInvalidStateTransitionError(entityName, a.status.String(), "reanchor")
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	a.assignedOrderID = &orderID
	return nil
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Agent) setCapacity(capacity kernel.Capacity) error {
	if err := capacity.Validate(); err != nil {
		return err
	}
	a.capacity = capacity
	return nil
}

func (a *Agent) setLocation(location *kernel.Location) error {
	if location == nil {
		a.location = nil
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	a.location = location
	return nil
}

func (a *Agent) setState(status Status, assignedOrderID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status.IsBusy() && assignedOrderID == nil {
		return errs.NewValueIsRequiredErrorWithCause("assigned order id", fmt.Errorf("agent is %s", status))
	}
	if !status.IsBusy() && assignedOrderID != nil {
		return errs.NewValueIsInvalidErrorWithCause("assigned order id", fmt.Errorf("agent is %s", status))
	}
	a.status = status
	a.assignedOrderID = assignedOrderID
	return nil
}
