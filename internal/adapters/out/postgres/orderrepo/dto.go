// Package orderrepo persists order aggregates. Rows carry a version column
// that Update uses as a compare-and-set token.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table row. Timestamps are owned by the domain, so
// gorm's automatic time tracking is switched off.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID       string    `gorm:"size:64;not null;index:idx_orders_customer_created,priority:1"`
	CustomerName     string    `gorm:"size:255"`
	DeliveryAddress  string    `gorm:"size:512;not null"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int       `gorm:"not null"`
	TotalAmountCents int64     `gorm:"not null"`
	Notes            string

	WarehouseID *uuid.UUID      `gorm:"type:uuid"`
	Destination *DestinationDTO `gorm:"embedded;embeddedPrefix:destination_"`

	Status           string     `gorm:"size:32;not null;index:idx_orders_status_created,priority:1"`
	DeliveryAgentID  *uuid.UUID `gorm:"type:uuid;index"`
	ConfirmationCode *string    `gorm:"size:6"`

	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false;index:idx_orders_status_created,priority:2;index:idx_orders_customer_created,priority:2"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	DeliveredAt *time.Time

	Version int64 `gorm:"not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// DestinationDTO holds the delivery coordinates. Both columns are null when
// the order has no geocoded destination.
type DestinationDTO struct {
	Lat *float64
	Lon *float64
}

func fromDomain(aggregate *order.Order) OrderDTO {
	details := aggregate.Details()

	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		CustomerID:       details.CustomerID,
		CustomerName:     details.CustomerName,
		DeliveryAddress:  details.DeliveryAddress,
		ProductID:        details.ProductID.Bytes(),
		Quantity:         details.Quantity,
		TotalAmountCents: details.TotalAmountCents,
		Notes:            details.Notes,
		Status:           aggregate.Status().String(),
		CreatedAt:        aggregate.CreatedAt().UTC(),
		UpdatedAt:        aggregate.UpdatedAt().UTC(),
		Version:          aggregate.Version(),
	}

	if id := details.WarehouseID; id != nil {
		raw := id.Bytes()
		dto.WarehouseID = &raw
	}

	dto.Destination = &DestinationDTO{}
	if loc := details.Destination; loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Destination = &DestinationDTO{Lat: &lat, Lon: &lon}
	}

	if id := aggregate.AgentID(); id != nil {
		raw := id.Bytes()
		dto.DeliveryAgentID = &raw
	}

	if code := aggregate.ConfirmationCode(); code != "" {
		s := code.String()
		dto.ConfirmationCode = &s
	}

	if at := aggregate.DeliveredAt(); at != nil {
		utc := at.UTC()
		dto.DeliveredAt = &utc
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFrom(dto.ProductID)
	if err != nil {
		return nil, err
	}

	details := order.Details{
		CustomerID:       dto.CustomerID,
		CustomerName:     dto.CustomerName,
		DeliveryAddress:  dto.DeliveryAddress,
		ProductID:        productID,
		Quantity:         dto.Quantity,
		TotalAmountCents: dto.TotalAmountCents,
		Notes:            dto.Notes,
	}

	if dto.WarehouseID != nil {
		warehouseID, whErr := kernel.UUIDFrom(*dto.WarehouseID)
		if whErr != nil {
			return nil, whErr
		}
		details.WarehouseID = &warehouseID
	}

	if dto.Destination != nil && dto.Destination.Lat != nil && dto.Destination.Lon != nil {
		loc, locErr := kernel.NewLocation(*dto.Destination.Lat, *dto.Destination.Lon)
		if locErr != nil {
			return nil, locErr
		}
		details.Destination = &loc
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	state := order.State{
		Status:      status,
		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
		DeliveredAt: dto.DeliveredAt,
		Version:     dto.Version,
	}

	if dto.DeliveryAgentID != nil {
		agentID, agentErr := kernel.UUIDFrom(*dto.DeliveryAgentID)
		if agentErr != nil {
			return nil, agentErr
		}
		state.AgentID = &agentID
	}

	if dto.ConfirmationCode != nil {
		state.ConfirmationCode = order.ConfirmationCode(*dto.ConfirmationCode)
	}

	return order.RestoreOrder(id, details, state)
}
