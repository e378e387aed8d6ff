package catalog

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse")

// Warehouse is the pickup point of an order. Dispatch reads it only as the
// geographic anchor for proximity checks.
type Warehouse struct {
	id       kernel.UUID
	name     string
	location *kernel.Location

	isConstructed bool
}

func NewWarehouse(id kernel.UUID, name string, location *kernel.Location) (*Warehouse, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, fmt.Errorf("warehouse %s: %w", id, err)
		}
	}
	return &Warehouse{
		id:            id,
		name:          strings.TrimSpace(name),
		location:      location,
		isConstructed: true,
	}, nil
}

func (w *Warehouse) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWarehouseIsNotConstructed
	}
	return nil
}

func (w *Warehouse) ID() kernel.UUID {
	return w.id
}

func (w *Warehouse) Name() string {
	return w.name
}

// Location is nil when the warehouse has no coordinates on record.
func (w *Warehouse) Location() *kernel.Location {
	return w.location
}

// RequireLocation returns the coordinates or a ValueIsRequired error.
func (w *Warehouse) RequireLocation() (kernel.Location, error) {
	if w.location == nil {
		return kernel.Location{}, errs.NewValueIsRequiredError("warehouse coordinates")
	}
	return *w.location, nil
}
