package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/order"
)

// ErrNoEligibleAgent is returned when no agent can take a cluster. The
// cluster stays pending for a later pass.
var ErrNoEligibleAgent = errors.New("no eligible agent")

// Mode tells how a cluster was matched.
type Mode int

const (
	ModeNone Mode = iota
	// ModeReuse adds the cluster to an agent already assigned nearby.
	ModeReuse
	// ModeNewAgent starts a new batch on the nearest available agent.
	ModeNewAgent
)

func (m Mode) String() string {
	switch m {
	case ModeReuse:
		return "reuse"
	case ModeNewAgent:
		return "new_agent"
	default:
		return "none"
	}
}

// BusyAgent is an ASSIGNED agent together with its in-flight orders.
type BusyAgent struct {
	Agent  *agent.Agent
	Orders []*order.Order
}

// Decision is the agent picked for a cluster.
type Decision struct {
	Mode       Mode
	Agent      *agent.Agent
	DistanceKm float64
}

// AssignmentPolicy matches a cluster to an agent, preferring to extend a
// nearby batch over starting a new one, and is the only place where dispatch
// mutates orders and agents.
type AssignmentPolicy struct {
	radiusKm    float64
	gracePeriod time.Duration
}

func NewAssignmentPolicy(radiusKm float64, gracePeriod time.Duration) AssignmentPolicy {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if gracePeriod < 0 {
		gracePeriod = DefaultGracePeriod
	}
	return AssignmentPolicy{radiusKm: radiusKm, gracePeriod: gracePeriod}
}

// Decide tries reuse first and falls back to the nearest available agent.
func (p AssignmentPolicy) Decide(
	cluster Cluster,
	busy []BusyAgent,
	available []*agent.Agent,
	now time.Time,
) (Decision, error) {
	if d, ok := p.FindReusable(cluster, busy, now); ok {
		return d, nil
	}
	if d, ok := p.FindNearestAvailable(cluster, available); ok {
		return d, nil
	}
	return Decision{}, ErrNoEligibleAgent
}

// FindReusable looks, in ascending agent id order, for an ASSIGNED agent of
// the cluster's tier within radius of the warehouse whose earliest assigned
// order has already waited the grace period.
func (p AssignmentPolicy) FindReusable(cluster Cluster, busy []BusyAgent, now time.Time) (Decision, bool) {
	sorted := slices.Clone(busy)
	slices.SortFunc(sorted, func(a, b BusyAgent) int {
		return a.Agent.ID().Compare(b.Agent.ID())
	})

	for _, b := range sorted {
		a := b.Agent
		if a.Status() != agent.Assigned || !a.CanCarry(cluster.Capacity()) {
			continue
		}

		d, ok := a.DistanceKmTo(cluster.Warehouse())
		if !ok || math.IsNaN(d) || d > p.radiusKm {
			continue
		}

		earliest, ok := earliestAssigned(b.Orders)
		if !ok || now.Sub(earliest) < p.gracePeriod {
			continue
		}

		return Decision{Mode: ModeReuse, Agent: a, DistanceKm: d}, true
	}

	return Decision{}, false
}

// FindNearestAvailable picks the AVAILABLE agent of the cluster's tier
// closest to the warehouse. Equal distances go to the lower agent id.
func (p AssignmentPolicy) FindNearestAvailable(cluster Cluster, available []*agent.Agent) (Decision, bool) {
	var (
		best     *agent.Agent
		bestDist = math.MaxFloat64
	)

	for _, a := range available {
		if a.Status() != agent.Available || !a.CanCarry(cluster.Capacity()) {
			continue
		}

		d, ok := a.DistanceKmTo(cluster.Warehouse())
		if !ok || math.IsNaN(d) {
			continue
		}

		if best == nil || d < bestDist || (d == bestDist && a.ID().Compare(best.ID()) < 0) {
			best = a
			bestDist = d
		}
	}

	if best == nil {
		return Decision{}, false
	}
	return Decision{Mode: ModeNewAgent, Agent: best, DistanceKm: bestDist}, true
}

// Apply assigns every order of the cluster to the decided agent. A new agent
// is moved to ASSIGNED with the anchor as its batch reference; a reused agent
// keeps its status and anchor. Nothing is mutated if any member is no longer
// pending.
func (p AssignmentPolicy) Apply(cluster Cluster, decision Decision, now time.Time) error {
	if decision.Agent == nil || decision.Mode == ModeNone {
		return ErrNoEligibleAgent
	}

	for _, m := range cluster.Members {
		if _, err := m.Order.Status().Assign(); err != nil {
			return fmt.Errorf("order %s: %w", m.ID(), err)
		}
	}

	if decision.Mode == ModeNewAgent {
		if err := decision.Agent.Assign(cluster.Anchor.ID()); err != nil {
			return err
		}
	}

	for _, m := range cluster.Members {
		if err := m.Order.Assign(decision.Agent.ID(), now); err != nil {
			return fmt.Errorf("order %s: %w", m.ID(), err)
		}
	}

	return nil
}

func earliestAssigned(orders []*order.Order) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, o := range orders {
		if o.Status() != order.Assigned {
			continue
		}
		if !found || o.CreatedAt().Before(earliest) {
			earliest = o.CreatedAt()
			found = true
		}
	}
	return earliest, found
}
