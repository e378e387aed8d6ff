package services

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

const DefaultGracePeriod = 30 * time.Second

// ErrMissingGeoData marks orders that cannot be placed on the map because
// the order or its warehouse lacks coordinates.
var ErrMissingGeoData = errors.New("missing geo data")

// Candidate is an eligible order resolved against the catalog: the warehouse
// it ships from and the vehicle tier its own weight requires.
type Candidate struct {
	Order     *order.Order
	Warehouse kernel.Location
	WeightKg  float64
	Capacity  kernel.Capacity
}

func (c Candidate) ID() kernel.UUID {
	return c.Order.ID()
}

// Exclusion is an eligible order left out of the pass. It stays pending.
type Exclusion struct {
	OrderID kernel.UUID
	Err     error
}

// Reason is a low cardinality label for the exclusion.
func (e Exclusion) Reason() string {
	switch {
	case errors.Is(e.Err, ErrMissingGeoData):
		return "missing_geo_data"
	case errors.Is(e.Err, errs.ErrObjectNotFound):
		return "not_found"
	default:
		return "invalid"
	}
}

// Catalog is the reference data a pass resolves candidates against.
type Catalog struct {
	Warehouses map[kernel.UUID]*catalog.Warehouse
	Products   map[kernel.UUID]*catalog.Product
}

// EligibilityFilter picks the orders a pass may assign. An order becomes
// eligible once it has waited the grace period, which lets near-simultaneous
// orders accumulate into one batch.
type EligibilityFilter struct {
	gracePeriod time.Duration
	classifier  kernel.CapacityClassifier
}

func NewEligibilityFilter(gracePeriod time.Duration, classifier kernel.CapacityClassifier) EligibilityFilter {
	if gracePeriod < 0 {
		gracePeriod = DefaultGracePeriod
	}
	return EligibilityFilter{
		gracePeriod: gracePeriod,
		classifier:  classifier,
	}
}

func (f EligibilityFilter) GracePeriod() time.Duration {
	return f.gracePeriod
}

func (f EligibilityFilter) IsEligible(o *order.Order, now time.Time) bool {
	return o.Status() == order.PendingAssignment && o.Age(now) >= f.gracePeriod
}

// Select keeps the eligible orders, oldest first with ties broken by id.
func (f EligibilityFilter) Select(orders []*order.Order, now time.Time) []*order.Order {
	eligible := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if f.IsEligible(o, now) {
			eligible = append(eligible, o)
		}
	}

	slices.SortStableFunc(eligible, func(a, b *order.Order) int {
		return cmp.Or(
			a.CreatedAt().Compare(b.CreatedAt()),
			a.ID().Compare(b.ID()),
		)
	})

	return eligible
}

// Resolve selects the eligible orders and attaches warehouse coordinates and
// weight class. Orders whose warehouse or product cannot be resolved are
// returned as exclusions, preserving order.
func (f EligibilityFilter) Resolve(orders []*order.Order, cat Catalog, now time.Time) ([]Candidate, []Exclusion) {
	eligible := f.Select(orders, now)

	candidates := make([]Candidate, 0, len(eligible))
	var excluded []Exclusion

	for _, o := range eligible {
		c, err := f.resolve(o, cat)
		if err != nil {
			excluded = append(excluded, Exclusion{OrderID: o.ID(), Err: err})
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, excluded
}

func (f EligibilityFilter) resolve(o *order.Order, cat Catalog) (Candidate, error) {
	warehouseID := o.WarehouseID()
	if warehouseID == nil {
		return Candidate{}, fmt.Errorf("order %s has no warehouse: %w", o.ID(), ErrMissingGeoData)
	}

	warehouse, ok := cat.Warehouses[*warehouseID]
	if !ok || warehouse == nil {
		return Candidate{}, errs.NewObjectNotFoundError("warehouse", warehouseID.String())
	}

	location := warehouse.Location()
	if location == nil {
		return Candidate{}, fmt.Errorf("warehouse %s has no coordinates: %w", warehouseID, ErrMissingGeoData)
	}

	product, ok := cat.Products[o.ProductID()]
	if !ok || product == nil {
		return Candidate{}, errs.NewObjectNotFoundError("product", o.ProductID().String())
	}

	weight := product.WeightKg(o.Quantity())
	return Candidate{
		Order:     o,
		Warehouse: *location,
		WeightKg:  weight,
		Capacity:  f.classifier.Classify(weight),
	}, nil
}
