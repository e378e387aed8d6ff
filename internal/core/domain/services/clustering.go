package services

import (
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

const (
	DefaultRadiusKm    = 3.0
	DefaultBatchWindow = 30 * time.Second
)

// Cluster is a batch of candidates meant for a single agent trip. The anchor
// is always the first member and decides the vehicle tier.
type Cluster struct {
	Anchor  Candidate
	Members []Candidate
}

func (c Cluster) Capacity() kernel.Capacity {
	return c.Anchor.Capacity
}

// Warehouse is where the agent starts the trip: the anchor's warehouse, even
// when members were placed at other warehouses.
func (c Cluster) Warehouse() kernel.Location {
	return c.Anchor.Warehouse
}

func (c Cluster) Orders() []*order.Order {
	orders := make([]*order.Order, 0, len(c.Members))
	for _, m := range c.Members {
		orders = append(orders, m.Order)
	}
	return orders
}

func (c Cluster) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID())
	}
	return ids
}

// TotalWeightKg is informational; classification uses the anchor alone.
func (c Cluster) TotalWeightKg() float64 {
	var total float64
	for _, m := range c.Members {
		total += m.WeightKg
	}
	return total
}

// Retain keeps the members accepted by keep. If the anchor is dropped the
// oldest remaining member takes its place. The second value is false when
// nothing is left.
func (c Cluster) Retain(keep func(Candidate) bool) (Cluster, bool) {
	kept := make([]Candidate, 0, len(c.Members))
	for _, m := range c.Members {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return Cluster{}, false
	}
	return Cluster{Anchor: kept[0], Members: kept}, true
}

// Clusterer groups candidates whose destinations are within radiusKm of the
// anchor's and whose creation times are within window of the anchor's.
type Clusterer struct {
	radiusKm float64
	window   time.Duration
}

func NewClusterer(radiusKm float64, window time.Duration) Clusterer {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if window < 0 {
		window = DefaultBatchWindow
	}
	return Clusterer{radiusKm: radiusKm, window: window}
}

func (c Clusterer) RadiusKm() float64 {
	return c.radiusKm
}

// Build returns the cluster of anchor over pool. pool must not contain
// consumed candidates; it may contain the anchor itself. An anchor without
// destination coordinates forms a singleton cluster.
func (c Clusterer) Build(anchor Candidate, pool []Candidate) Cluster {
	cluster := Cluster{
		Anchor:  anchor,
		Members: []Candidate{anchor},
	}

	anchorDest := anchor.Order.Destination()
	if anchorDest == nil {
		return cluster
	}

	for _, other := range pool {
		if other.ID().IsEqual(anchor.ID()) {
			continue
		}
		if c.belongs(anchor, *anchorDest, other) {
			cluster.Members = append(cluster.Members, other)
		}
	}

	return cluster
}

func (c Clusterer) belongs(anchor Candidate, anchorDest kernel.Location, other Candidate) bool {
	if other.Capacity != anchor.Capacity {
		return false
	}

	dest := other.Order.Destination()
	if dest == nil {
		return false
	}

	gap := other.Order.CreatedAt().Sub(anchor.Order.CreatedAt())
	if gap < 0 {
		gap = -gap
	}
	if gap > c.window {
		return false
	}

	d := anchorDest.DistanceKm(*dest)
	return !math.IsNaN(d) && d <= c.radiusKm
}

// Partition walks candidates in order, using the first unconsumed one as the
// next anchor. Every candidate ends up in exactly one cluster.
func (c Clusterer) Partition(candidates []Candidate) []Cluster {
	var clusters []Cluster
	remaining := candidates

	for len(remaining) > 0 {
		cluster := c.Build(remaining[0], remaining)
		clusters = append(clusters, cluster)
		remaining = Without(remaining, cluster)
	}

	return clusters
}

// Without returns the candidates of pool that are not members of cluster.
func Without(pool []Candidate, cluster Cluster) []Candidate {
	consumed := make(map[kernel.UUID]struct{}, len(cluster.Members))
	for _, m := range cluster.Members {
		consumed[m.ID()] = struct{}{}
	}

	rest := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		if _, ok := consumed[p.ID()]; !ok {
			rest = append(rest, p)
		}
	}
	return rest
}
