package queries

import (
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentResponse is the agent read model shared by the agent queries.
type AgentResponse struct {
	ID              kernel.UUID
	Name            string
	Phone           string
	Capacity        string
	Status          string
	Location        *kernel.Location
	AssignedOrderID *kernel.UUID
}

// OrderSummaryResponse is the list view of an order. It never carries the
// confirmation code.
type OrderSummaryResponse struct {
	ID          kernel.UUID
	CustomerID  string
	Status      string
	AgentID     *kernel.UUID
	WarehouseID *kernel.UUID
	Destination *kernel.Location
	CreatedAt   time.Time
}

const agentColumns = `
			id,
			name,
			phone,
			capacity,
			status,
			location_lat,
			location_lon,
			assigned_order_id`

const orderSummaryColumns = `
			id,
			customer_id,
			status,
			delivery_agent_id,
			warehouse_id,
			destination_lat,
			destination_lon,
			created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (AgentResponse, error) {
	var (
		resp     AgentResponse
		id       uuid.UUID
		phone    sql.NullString
		lat, lon sql.NullFloat64
		anchor   uuid.NullUUID
	)

	err := row.Scan(
		&id,
		&resp.Name,
		&phone,
		&resp.Capacity,
		&resp.Status,
		&lat,
		&lon,
		&anchor,
	)
	if err != nil {
		return AgentResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFrom(id); err != nil {
		return AgentResponse{}, err
	}
	if resp.Location, err = nullableLocation(lat, lon); err != nil {
		return AgentResponse{}, err
	}
	if resp.AssignedOrderID, err = nullableID(anchor); err != nil {
		return AgentResponse{}, err
	}
	resp.Phone = phone.String

	return resp, nil
}

func scanOrderSummary(row rowScanner) (OrderSummaryResponse, error) {
	var (
		resp                 OrderSummaryResponse
		id                   uuid.UUID
		agentID, warehouseID uuid.NullUUID
		lat, lon             sql.NullFloat64
	)

	err := row.Scan(
		&id,
		&resp.CustomerID,
		&resp.Status,
		&agentID,
		&warehouseID,
		&lat,
		&lon,
		&resp.CreatedAt,
	)
	if err != nil {
		return OrderSummaryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFrom(id); err != nil {
		return OrderSummaryResponse{}, err
	}
	if resp.AgentID, err = nullableID(agentID); err != nil {
		return OrderSummaryResponse{}, err
	}
	if resp.WarehouseID, err = nullableID(warehouseID); err != nil {
		return OrderSummaryResponse{}, err
	}
	if resp.Destination, err = nullableLocation(lat, lon); err != nil {
		return OrderSummaryResponse{}, err
	}
	resp.CreatedAt = resp.CreatedAt.UTC()

	return resp, nil
}

func collectOrderSummaries(rows *sql.Rows) ([]OrderSummaryResponse, error) {
	defer rows.Close()

	orders := make([]OrderSummaryResponse, 0)
	for rows.Next() {
		resp, err := scanOrderSummary(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
