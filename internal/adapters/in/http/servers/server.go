// Package servers holds the HTTP contract of the dispatch API: the OpenAPI
// document, its models and the echo routing glue. Handlers live in the
// http adapter.
package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/v1/agents)
	GetAgents(ctx echo.Context, params GetAgentsParams) error
	// (POST /api/v1/agents)
	RegisterAgent(ctx echo.Context) error
	// (GET /api/v1/agents/{agentId})
	GetAgent(ctx echo.Context, agentId openapi_types.UUID) error
	// (PATCH /api/v1/agents/{agentId})
	UpdateAgent(ctx echo.Context, agentId openapi_types.UUID) error
	// (GET /api/v1/customers/{customerId}/orders)
	GetCustomerOrders(ctx echo.Context, customerId string) error
	// (POST /api/v1/dispatch/run)
	RunDispatchPass(ctx echo.Context) error
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (POST /api/v1/orders)
	PlaceOrder(ctx echo.Context) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/assign/{agentId})
	AssignOrder(ctx echo.Context, orderId openapi_types.UUID, agentId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/deliver)
	DeliverOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/out-for-delivery)
	SendOrderOutForDelivery(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/pickup)
	PickUpOrder(ctx echo.Context, orderId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetAgents(ctx echo.Context) error {
	var params GetAgentsParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.GetAgents(ctx, params)
}

func (w *ServerInterfaceWrapper) RegisterAgent(ctx echo.Context) error {
	return w.Handler.RegisterAgent(ctx)
}

func (w *ServerInterfaceWrapper) GetAgent(ctx echo.Context) error {
	agentId, err := bindUUID(ctx, "agentId")
	if err != nil {
		return err
	}
	return w.Handler.GetAgent(ctx, agentId)
}

func (w *ServerInterfaceWrapper) UpdateAgent(ctx echo.Context) error {
	agentId, err := bindUUID(ctx, "agentId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateAgent(ctx, agentId)
}

func (w *ServerInterfaceWrapper) GetCustomerOrders(ctx echo.Context) error {
	var customerId string
	err := runtime.BindStyledParameterWithOptions("simple", "customerId", ctx.Param("customerId"), &customerId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter customerId: %s", err))
	}
	return w.Handler.GetCustomerOrders(ctx, customerId)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	return w.Handler.PlaceOrder(ctx)
}

func (w *ServerInterfaceWrapper) RunDispatchPass(ctx echo.Context) error {
	return w.Handler.RunDispatchPass(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) AssignOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	agentId, err := bindUUID(ctx, "agentId")
	if err != nil {
		return err
	}
	return w.Handler.AssignOrder(ctx, orderId, agentId)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) DeliverOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.DeliverOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) SendOrderOutForDelivery(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.SendOrderOutForDelivery(ctx, orderId)
}

func (w *ServerInterfaceWrapper) PickUpOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.PickUpOrder(ctx, orderId)
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/api/v1/agents", wrapper.GetAgents)
	router.POST(baseURL+"/api/v1/agents", wrapper.RegisterAgent)
	router.GET(baseURL+"/api/v1/agents/:agentId", wrapper.GetAgent)
	router.PATCH(baseURL+"/api/v1/agents/:agentId", wrapper.UpdateAgent)
	router.GET(baseURL+"/api/v1/customers/:customerId/orders", wrapper.GetCustomerOrders)
	router.POST(baseURL+"/api/v1/dispatch/run", wrapper.RunDispatchPass)
	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.PlaceOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/assign/:agentId", wrapper.AssignOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancel", wrapper.CancelOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/deliver", wrapper.DeliverOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/out-for-delivery", wrapper.SendOrderOutForDelivery)
	router.POST(baseURL+"/api/v1/orders/:orderId/pickup", wrapper.PickUpOrder)
}
