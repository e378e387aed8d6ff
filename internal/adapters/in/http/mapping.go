package http

import (
	"dispatch/internal/adapters/in/http/servers"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// orderFromDomain renders a transition result. The confirmation code is
// left out: transitions are called by agents, the code belongs to the
// customer and is only served by GetOrder.
func orderFromDomain(o *order.Order) servers.Order {
	d := o.Details()
	return servers.Order{
		Id:               o.ID().Bytes(),
		Status:           o.Status().String(),
		AgentId:          optionalID(o.AgentID()),
		CustomerId:       d.CustomerID,
		CustomerName:     d.CustomerName,
		DeliveryAddress:  d.DeliveryAddress,
		ProductId:        d.ProductID.Bytes(),
		Quantity:         d.Quantity,
		TotalAmountCents: d.TotalAmountCents,
		Notes:            d.Notes,
		WarehouseId:      optionalID(d.WarehouseID),
		Destination:      optionalLocation(d.Destination),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		DeliveredAt:      o.DeliveredAt(),
	}
}

func orderFromReadModel(o *queries.GetOrderQueryResponse) servers.Order {
	return servers.Order{
		Id:               o.ID.Bytes(),
		Status:           o.Status,
		AgentId:          optionalID(o.AgentID),
		CustomerId:       o.CustomerID,
		CustomerName:     o.CustomerName,
		DeliveryAddress:  o.DeliveryAddress,
		ProductId:        o.ProductID.Bytes(),
		Quantity:         o.Quantity,
		TotalAmountCents: o.TotalAmountCents,
		Notes:            o.Notes,
		WarehouseId:      optionalID(o.WarehouseID),
		Destination:      optionalLocation(o.Destination),
		ConfirmationCode: o.ConfirmationCode,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		DeliveredAt:      o.DeliveredAt,
	}
}

func orderSummary(o queries.OrderSummaryResponse) servers.OrderSummary {
	return servers.OrderSummary{
		Id:          o.ID.Bytes(),
		CustomerId:  o.CustomerID,
		Status:      o.Status,
		AgentId:     optionalID(o.AgentID),
		WarehouseId: optionalID(o.WarehouseID),
		Destination: optionalLocation(o.Destination),
		CreatedAt:   o.CreatedAt,
	}
}

func agentFromDomain(a *agent.Agent) servers.Agent {
	return servers.Agent{
		Id:              a.ID().Bytes(),
		Name:            a.Name(),
		Phone:           a.Phone(),
		Capacity:        a.Capacity().String(),
		Status:          a.Status().String(),
		Location:        optionalLocation(a.Location()),
		AssignedOrderId: optionalID(a.AssignedOrderID()),
	}
}

func agentFromReadModel(a queries.AgentResponse) servers.Agent {
	return servers.Agent{
		Id:              a.ID.Bytes(),
		Name:            a.Name,
		Phone:           a.Phone,
		Capacity:        a.Capacity,
		Status:          a.Status,
		Location:        optionalLocation(a.Location),
		AssignedOrderId: optionalID(a.AssignedOrderID),
	}
}

func passReport(r commands.PassReport) servers.PassReport {
	out := servers.PassReport{
		Trigger:        r.Trigger,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Skipped:        r.Skipped,
		Pending:        r.Pending,
		Eligible:       r.Eligible,
		AssignedOrders: r.AssignedOrders(),
		Excluded:       make([]servers.Exclusion, 0, len(r.Excluded)),
		Clusters:       make([]servers.ClusterOutcome, 0, len(r.Clusters)),
	}

	for _, ex := range r.Excluded {
		e := servers.Exclusion{OrderId: ex.OrderID.Bytes(), Reason: ex.Reason()}
		if ex.Err != nil {
			e.Error = ex.Err.Error()
		}
		out.Excluded = append(out.Excluded, e)
	}

	for _, c := range r.Clusters {
		ids := make([]openapi_types.UUID, len(c.OrderIDs))
		for i, id := range c.OrderIDs {
			ids[i] = id.Bytes()
		}
		outcome := servers.ClusterOutcome{
			AnchorOrderId: c.AnchorOrderID.Bytes(),
			OrderIds:      ids,
			Capacity:      c.Capacity.String(),
			TotalWeightKg: c.TotalWeightKg,
			Result:        c.Result,
			Mode:          c.Mode.String(),
			AgentId:       optionalID(c.AgentID),
			DistanceKm:    c.DistanceKm,
		}
		if c.Err != nil {
			outcome.Error = c.Err.Error()
		}
		out.Clusters = append(out.Clusters, outcome)
	}

	return out
}

func detailsFromRequest(r servers.PlaceOrderRequest) (order.Details, error) {
	productID, err := pathID("productId", r.ProductId)
	if err != nil {
		return order.Details{}, err
	}

	details := order.Details{
		CustomerID:       r.CustomerId,
		CustomerName:     r.CustomerName,
		DeliveryAddress:  r.DeliveryAddress,
		ProductID:        productID,
		Quantity:         r.Quantity,
		TotalAmountCents: r.TotalAmountCents,
		Notes:            r.Notes,
	}

	if r.WarehouseId != nil {
		warehouseID, err := pathID("warehouseId", *r.WarehouseId)
		if err != nil {
			return order.Details{}, err
		}
		details.WarehouseID = &warehouseID
	}

	if details.Destination, err = locationFromRequest(r.Destination); err != nil {
		return order.Details{}, err
	}

	return details, nil
}

func locationFromRequest(l *servers.Location) (*kernel.Location, error) {
	if l == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(l.Lat, l.Lon)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalLocation(l *kernel.Location) *servers.Location {
	if l == nil {
		return nil
	}
	return &servers.Location{Lat: l.Latitude(), Lon: l.Longitude()}
}
