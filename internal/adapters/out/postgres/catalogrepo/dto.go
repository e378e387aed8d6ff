// Package catalogrepo reads warehouses and products. The catalog is owned by
// another context; Add exists for seeding and fixtures only.
package catalogrepo

import (
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type WarehouseDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255)"`
	Lat  *float64
	Lon  *float64
}

func (WarehouseDTO) TableName() string {
	return "warehouses"
}

type ProductDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255)"`
	UnitWeightGrams float64   `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func warehouseFromDomain(w *catalog.Warehouse) WarehouseDTO {
	dto := WarehouseDTO{
		ID:   w.ID().Bytes(),
		Name: w.Name(),
	}
	if loc := w.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Lat, dto.Lon = &lat, &lon
	}
	return dto
}

func warehouseToDomain(dto WarehouseDTO) (*catalog.Warehouse, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lat != nil && dto.Lon != nil {
		loc, locErr := kernel.NewLocation(*dto.Lat, *dto.Lon)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return catalog.NewWarehouse(id, dto.Name, location)
}

func productFromDomain(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:              p.ID().Bytes(),
		Name:            p.Name(),
		UnitWeightGrams: p.UnitWeightGrams(),
	}
}

func productToDomain(dto ProductDTO) (*catalog.Product, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	return catalog.NewProduct(id, dto.Name, dto.UnitWeightGrams)
}
