package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Order struct {
	Id               openapi_types.UUID  `json:"id"`
	Status           string              `json:"status"`
	AgentId          *openapi_types.UUID `json:"agentId,omitempty"`
	CustomerId       string              `json:"customerId"`
	CustomerName     string              `json:"customerName,omitempty"`
	DeliveryAddress  string              `json:"deliveryAddress"`
	ProductId        openapi_types.UUID  `json:"productId"`
	Quantity         int                 `json:"quantity"`
	TotalAmountCents int64               `json:"totalAmountCents"`
	Notes            string              `json:"notes,omitempty"`
	WarehouseId      *openapi_types.UUID `json:"warehouseId,omitempty"`
	Destination      *Location           `json:"destination,omitempty"`
	ConfirmationCode string              `json:"confirmationCode,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	DeliveredAt      *time.Time          `json:"deliveredAt,omitempty"`
}

type Agent struct {
	Id              openapi_types.UUID  `json:"id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone,omitempty"`
	Capacity        string              `json:"capacity"`
	Status          string              `json:"status"`
	Location        *Location           `json:"location,omitempty"`
	AssignedOrderId *openapi_types.UUID `json:"assignedOrderId,omitempty"`
}

type OrderSummary struct {
	Id          openapi_types.UUID  `json:"id"`
	CustomerId  string              `json:"customerId"`
	Status      string              `json:"status"`
	AgentId     *openapi_types.UUID `json:"agentId,omitempty"`
	WarehouseId *openapi_types.UUID `json:"warehouseId,omitempty"`
	Destination *Location           `json:"destination,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type PlaceOrderRequest struct {
	Id               *openapi_types.UUID `json:"id,omitempty"`
	CustomerId       string              `json:"customerId" validate:"required"`
	CustomerName     string              `json:"customerName,omitempty"`
	DeliveryAddress  string              `json:"deliveryAddress" validate:"required"`
	ProductId        openapi_types.UUID  `json:"productId" validate:"required"`
	Quantity         int                 `json:"quantity" validate:"gte=1"`
	TotalAmountCents int64               `json:"totalAmountCents,omitempty" validate:"gte=0"`
	Notes            string              `json:"notes,omitempty"`
	WarehouseId      *openapi_types.UUID `json:"warehouseId,omitempty"`
	Destination      *Location           `json:"destination,omitempty"`
}

type RegisterAgentRequest struct {
	Id       *openapi_types.UUID `json:"id,omitempty"`
	Name     string              `json:"name" validate:"required"`
	Phone    string              `json:"phone,omitempty"`
	Capacity string              `json:"capacity" validate:"required,oneof=TWO_WHEELER FOUR_WHEELER"`
	Location *Location           `json:"location,omitempty"`
}

// UpdateAgentRequest changes only the fields that are present.
type UpdateAgentRequest struct {
	Name     *string   `json:"name,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Status   *string   `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE OFFLINE"`
	Location *Location `json:"location,omitempty"`
}

type DeliverRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type Exclusion struct {
	OrderId openapi_types.UUID `json:"orderId"`
	Reason  string             `json:"reason"`
	Error   string             `json:"error,omitempty"`
}

type ClusterOutcome struct {
	AnchorOrderId openapi_types.UUID   `json:"anchorOrderId"`
	OrderIds      []openapi_types.UUID `json:"orderIds"`
	Capacity      string               `json:"capacity"`
	TotalWeightKg float64              `json:"totalWeightKg"`
	Result        string               `json:"result"`
	Mode          string               `json:"mode"`
	AgentId       *openapi_types.UUID  `json:"agentId,omitempty"`
	DistanceKm    float64              `json:"distanceKm,omitempty"`
	Error         string               `json:"error,omitempty"`
}

type PassReport struct {
	Trigger        string           `json:"trigger"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`
	Skipped        bool             `json:"skipped"`
	Pending        int              `json:"pending"`
	Eligible       int              `json:"eligible"`
	AssignedOrders int              `json:"assignedOrders"`
	Excluded       []Exclusion      `json:"excluded"`
	Clusters       []ClusterOutcome `json:"clusters"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}

// GetAgentsParams defines parameters for GetAgents.
type GetAgentsParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}
