package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle fails with errs.ErrObjectNotFound for unknown orders.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			customer_name,
			delivery_address,
			product_id,
			quantity,
			total_amount_cents,
			notes,
			status,
			delivery_agent_id,
			confirmation_code,
			warehouse_id,
			destination_lat,
			destination_lon,
			created_at,
			updated_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		resp                      GetOrderQueryResponse
		id, productID             uuid.UUID
		agentID, warehouseID      uuid.NullUUID
		customerName, notes, code sql.NullString
		lat, lon                  sql.NullFloat64
		deliveredAt               sql.NullTime
	)

	err := row.Scan(
		&id,
		&resp.CustomerID,
		&customerName,
		&resp.DeliveryAddress,
		&productID,
		&resp.Quantity,
		&resp.TotalAmountCents,
		&notes,
		&resp.Status,
		&agentID,
		&code,
		&warehouseID,
		&lat,
		&lon,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&deliveredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return nil, err
	}

	if resp.ID, err = kernel.UUIDFrom(id); err != nil {
		return nil, err
	}
	if resp.ProductID, err = kernel.UUIDFrom(productID); err != nil {
		return nil, err
	}
	if resp.AgentID, err = nullableID(agentID); err != nil {
		return nil, err
	}
	if resp.WarehouseID, err = nullableID(warehouseID); err != nil {
		return nil, err
	}
	if resp.Destination, err = nullableLocation(lat, lon); err != nil {
		return nil, err
	}

	resp.CustomerName = customerName.String
	resp.Notes = notes.String
	resp.ConfirmationCode = code.String
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		resp.DeliveredAt = &at
	}

	return &resp, nil
}

func nullableID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	parsed, err := kernel.UUIDFrom(id.UUID)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullableLocation(lat, lon sql.NullFloat64) (*kernel.Location, error) {
	if !lat.Valid || !lon.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lat.Float64, lon.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
