package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct")

// Product carries the unit weight used to classify an order's load.
// Weights are recorded in grams.
type Product struct {
	id              kernel.UUID
	name            string
	unitWeightGrams float64

	isConstructed bool
}

func NewProduct(id kernel.UUID, name string, unitWeightGrams float64) (*Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(unitWeightGrams) || unitWeightGrams < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("unit weight", fmt.Errorf("%v is not a weight", unitWeightGrams))
	}
	return &Product{
		id:              id,
		name:            strings.TrimSpace(name),
		unitWeightGrams: unitWeightGrams,
		isConstructed:   true,
	}, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) UnitWeightGrams() float64 {
	return p.unitWeightGrams
}

// WeightKg is the physical weight of quantity units in kilograms.
func (p *Product) WeightKg(quantity int) float64 {
	return float64(quantity) * p.unitWeightGrams / 1000
}
