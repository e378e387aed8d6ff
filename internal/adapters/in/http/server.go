package http

import (
	"context"
	"net/http"

	"dispatch/internal/adapters/in/http/servers"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements servers.ServerInterface on top of the command and query
// handlers. Errors are returned to echo and rendered by ErrorHandler.
type Server struct {
	// Command handlers
	placeOrderHandler     commands.PlaceOrderCommandHandler
	registerAgentHandler  commands.RegisterAgentCommandHandler
	updateAgentHandler    commands.UpdateAgentCommandHandler
	assignHandler         commands.AssignAgentCommandHandler
	pickUpHandler         commands.MarkPickedUpCommandHandler
	outForDeliveryHandler commands.MarkOutForDeliveryCommandHandler
	deliverHandler        commands.DeliverOrderCommandHandler
	cancelHandler         commands.CancelOrderCommandHandler
	dispatchHandler       *commands.RunDispatchPassCommandHandler

	// Query handlers
	getOrderHandler       queries.GetOrderQueryHandler
	listOrdersHandler     queries.GetOrdersByStatusQueryHandler
	customerOrdersHandler queries.GetCustomerOrdersQueryHandler
	getAgentHandler       queries.GetAgentQueryHandler
	getAgentsHandler      queries.GetAgentsByStatusQueryHandler
}

// Handlers groups what NewServer needs.
type Handlers struct {
	PlaceOrder     commands.PlaceOrderCommandHandler
	RegisterAgent  commands.RegisterAgentCommandHandler
	UpdateAgent    commands.UpdateAgentCommandHandler
	Assign         commands.AssignAgentCommandHandler
	PickUp         commands.MarkPickedUpCommandHandler
	OutForDelivery commands.MarkOutForDeliveryCommandHandler
	Deliver        commands.DeliverOrderCommandHandler
	Cancel         commands.CancelOrderCommandHandler
	Dispatch       *commands.RunDispatchPassCommandHandler
	GetOrder       queries.GetOrderQueryHandler
	ListOrders     queries.GetOrdersByStatusQueryHandler
	CustomerOrders queries.GetCustomerOrdersQueryHandler
	GetAgent       queries.GetAgentQueryHandler
	GetAgents      queries.GetAgentsByStatusQueryHandler
}

func NewServer(h Handlers) *Server {
	return &Server{
		placeOrderHandler:     h.PlaceOrder,
		registerAgentHandler:  h.RegisterAgent,
		updateAgentHandler:    h.UpdateAgent,
		assignHandler:         h.Assign,
		pickUpHandler:         h.PickUp,
		outForDeliveryHandler: h.OutForDelivery,
		deliverHandler:        h.Deliver,
		cancelHandler:         h.Cancel,
		dispatchHandler:       h.Dispatch,
		getOrderHandler:       h.GetOrder,
		listOrdersHandler:     h.ListOrders,
		customerOrdersHandler: h.CustomerOrders,
		getAgentHandler:       h.GetAgent,
		getAgentsHandler:      h.GetAgents,
	}
}

var _ servers.ServerInterface = (*Server)(nil)

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body servers.PlaceOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	orderID, err := newOrGivenID(body.Id)
	if err != nil {
		return err
	}
	details, err := detailsFromRequest(body)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceOrderCommand(orderID, details)
	if err != nil {
		return err
	}

	o, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(o))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	var status *order.Status
	if params.Status != nil {
		parsed, err := order.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewGetOrdersByStatusQuery(status)
	if err != nil {
		return err
	}

	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]servers.OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = orderSummary(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	order, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromReadModel(order))
}

// AssignOrder handles POST /api/v1/orders/{orderId}/assign/{agentId}.
func (s *Server) AssignOrder(ctx echo.Context, orderId openapi_types.UUID, agentId openapi_types.UUID) error {
	oid, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}
	aid, err := pathID("agentId", agentId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignAgentCommand(oid, aid)
	if err != nil {
		return err
	}

	o, err := s.assignHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// PickUpOrder handles POST /api/v1/orders/{orderId}/pickup.
func (s *Server) PickUpOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkPickedUpCommand(id)
	if err != nil {
		return err
	}

	o, err := s.pickUpHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// SendOrderOutForDelivery handles POST /api/v1/orders/{orderId}/out-for-delivery.
func (s *Server) SendOrderOutForDelivery(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkOutForDeliveryCommand(id)
	if err != nil {
		return err
	}

	o, err := s.outForDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// DeliverOrder handles POST /api/v1/orders/{orderId}/deliver.
func (s *Server) DeliverOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}

	var body servers.DeliverRequest
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err = ctx.Validate(&body); err != nil {
		return err
	}

	cmd, err := commands.NewDeliverOrderCommand(id, body.Code)
	if err != nil {
		return err
	}

	o, err := s.deliverHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := pathID("orderId", orderId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return err
	}

	o, err := s.cancelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// GetAgents handles GET /api/v1/agents.
func (s *Server) GetAgents(ctx echo.Context, params servers.GetAgentsParams) error {
	var status *agent.Status
	if params.Status != nil {
		parsed, err := agent.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewGetAgentsByStatusQuery(status)
	if err != nil {
		return err
	}

	agents, err := s.getAgentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]servers.Agent, len(agents))
	for i, a := range agents {
		response[i] = agentFromReadModel(a)
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterAgent handles POST /api/v1/agents.
func (s *Server) RegisterAgent(ctx echo.Context) error {
	var body servers.RegisterAgentRequest
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	agentID, err := newOrGivenID(body.Id)
	if err != nil {
		return err
	}
	capacity, err := kernel.ParseCapacity(body.Capacity)
	if err != nil {
		return err
	}
	location, err := locationFromRequest(body.Location)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterAgentCommand(agentID, body.Name, body.Phone, capacity, location)
	if err != nil {
		return err
	}

	a, err := s.registerAgentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, agentFromDomain(a))
}

// GetAgent handles GET /api/v1/agents/{agentId}.
func (s *Server) GetAgent(ctx echo.Context, agentId openapi_types.UUID) error {
	id, err := pathID("agentId", agentId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetAgentQuery(id)
	if err != nil {
		return err
	}

	a, err := s.getAgentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, agentFromReadModel(*a))
}

// UpdateAgent handles PATCH /api/v1/agents/{agentId}.
func (s *Server) UpdateAgent(ctx echo.Context, agentId openapi_types.UUID) error {
	id, err := pathID("agentId", agentId)
	if err != nil {
		return err
	}

	var body servers.UpdateAgentRequest
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err = ctx.Validate(&body); err != nil {
		return err
	}

	changes := commands.AgentChanges{Name: body.Name, Phone: body.Phone}
	if changes.Location, err = locationFromRequest(body.Location); err != nil {
		return err
	}
	if body.Status != nil {
		status, err := agent.ParseStatus(*body.Status)
		if err != nil {
			return err
		}
		changes.Status = &status
	}

	cmd, err := commands.NewUpdateAgentCommand(id, changes)
	if err != nil {
		return err
	}

	a, err := s.updateAgentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, agentFromDomain(a))
}

// GetCustomerOrders handles GET /api/v1/customers/{customerId}/orders.
func (s *Server) GetCustomerOrders(ctx echo.Context, customerId string) error {
	query, err := queries.NewGetCustomerOrdersQuery(customerId)
	if err != nil {
		return err
	}

	orders, err := s.customerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]servers.OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = orderSummary(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// RunDispatchPass handles POST /api/v1/dispatch/run.
func (s *Server) RunDispatchPass(ctx echo.Context) error {
	cmd, err := commands.NewRunDispatchPassCommand(commands.TriggerManual)
	if err != nil {
		return err
	}

	// A disconnecting client must not cut short a pass other callers share.
	report, err := s.dispatchHandler.Handle(context.WithoutCancel(ctx.Request().Context()), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, passReport(report))
}

// newOrGivenID lets clients pick the identifier of a new resource.
func newOrGivenID(id *openapi_types.UUID) (kernel.UUID, error) {
	if id == nil {
		return kernel.NewUUID(), nil
	}
	return pathID("id", *id)
}

func pathID(param string, id openapi_types.UUID) (kernel.UUID, error) {
	converted, err := kernel.UUIDFrom(id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	return converted, nil
}
