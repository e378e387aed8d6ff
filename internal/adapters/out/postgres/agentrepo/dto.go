// Package agentrepo persists delivery agents, including the anchor of the
// batch an agent is currently serving.
package agentrepo

import (
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AgentDTO struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name            string       `gorm:"type:varchar(255);not null"`
	Phone           string       `gorm:"type:varchar(32)"`
	Capacity        string       `gorm:"type:varchar(16);not null"`
	Status          string       `gorm:"type:varchar(16);not null;index"`
	Location        *LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	AssignedOrderID *uuid.UUID   `gorm:"type:uuid"`
	Version         int64        `gorm:"not null;default:0"`
}

func (AgentDTO) TableName() string {
	return "delivery_agents"
}

// LocationDTO is the agent's last known position; both columns are null
// when it is unknown.
type LocationDTO struct {
	Lat *float64
	Lon *float64
}

func fromDomain(aggregate *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:       aggregate.ID().Bytes(),
		Name:     aggregate.Name(),
		Phone:    aggregate.Phone(),
		Capacity: aggregate.Capacity().String(),
		Status:   aggregate.Status().String(),
		Location: &LocationDTO{},
		Version:  aggregate.Version(),
	}

	if loc := aggregate.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Location = &LocationDTO{Lat: &lat, Lon: &lon}
	}

	if id := aggregate.AssignedOrderID(); id != nil {
		raw := id.Bytes()
		dto.AssignedOrderID = &raw
	}

	return dto
}

func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	capacity, err := kernel.ParseCapacity(dto.Capacity)
	if err != nil {
		return nil, err
	}

	status, err := agent.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Location != nil && dto.Location.Lat != nil && dto.Location.Lon != nil {
		loc, locErr := kernel.NewLocation(*dto.Location.Lat, *dto.Location.Lon)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	var anchor *kernel.UUID
	if dto.AssignedOrderID != nil {
		orderID, orderErr := kernel.UUIDFrom(*dto.AssignedOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		anchor = &orderID
	}

	return agent.RestoreAgent(id, dto.Name, dto.Phone, capacity, status, location, anchor, dto.Version)
}
