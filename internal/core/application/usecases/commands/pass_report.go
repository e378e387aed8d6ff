package commands

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// Cluster results.
const (
	ClusterAssigned = "assigned"
	ClusterNoAgent  = "no_agent"
	ClusterConflict = "conflict"
	ClusterStale    = "stale"
	ClusterFailed   = "failed"
)

// Pass outcomes.
const (
	PassCompleted = "completed"
	PassSkipped   = "skipped"
	PassFailed    = "failed"
)

// ClusterOutcome is what happened to one cluster of a pass.
type ClusterOutcome struct {
	AnchorOrderID kernel.UUID
	OrderIDs      []kernel.UUID
	Capacity      kernel.Capacity
	TotalWeightKg float64
	Result        string
	Mode          services.Mode
	AgentID       *kernel.UUID
	DistanceKm    float64
	Err           error
}

// PassReport summarizes a dispatch pass.
type PassReport struct {
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	// Skipped is set when another pass held the lock.
	Skipped  bool
	Pending  int
	Eligible int
	Excluded []services.Exclusion
	Clusters []ClusterOutcome
}

func (r PassReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r PassReport) Outcome() string {
	if r.Skipped {
		return PassSkipped
	}
	return PassCompleted
}

// AssignedOrders counts the orders assigned by the pass.
func (r PassReport) AssignedOrders() int {
	n := 0
	for _, c := range r.Clusters {
		if c.Result == ClusterAssigned {
			n += len(c.OrderIDs)
		}
	}
	return n
}

func (r PassReport) CountClusters(result string) int {
	n := 0
	for _, c := range r.Clusters {
		if c.Result == result {
			n++
		}
	}
	return n
}

// PassMetrics records dispatch activity.
type PassMetrics interface {
	ObservePass(outcome string, duration time.Duration, eligible int)
	ObserveCluster(result, mode string, orders int)
	ObserveExclusion(reason string)
}

type noopPassMetrics struct{}

func (noopPassMetrics) ObservePass(string, time.Duration, int) {}
func (noopPassMetrics) ObserveCluster(string, string, int)     {}
func (noopPassMetrics) ObserveExclusion(string)                {}
