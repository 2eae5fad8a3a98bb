// Package http exposes the service's REST API. Identity arrives in
// gateway-verified headers (X-User-Id, X-User-Role, X-Tenant-Id); the
// gateway has already authenticated the caller, so handlers only translate
// those headers into domain actors.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/workflow"
)

// Identity headers populated by the API gateway.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	HeaderTenantID = "X-Tenant-Id"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	intake                 *workflow.OrderIntake
	changeStatusHandler    commands.ChangeOrderStatusCommandHandler
	registerConnHandler    commands.RegisterConnectionCommandHandler
	unregisterConnHandler  commands.UnregisterConnectionCommandHandler
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
}

// NewServer creates the HTTP server from its use-case dependencies.
func NewServer(
	intake *workflow.OrderIntake,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	registerConnHandler commands.RegisterConnectionCommandHandler,
	unregisterConnHandler commands.UnregisterConnectionCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
) *Server {
	return &Server{
		intake:                 intake,
		changeStatusHandler:    changeStatusHandler,
		registerConnHandler:    registerConnHandler,
		unregisterConnHandler:  unregisterConnHandler,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PUT("/orders/:orderId/status", s.ChangeOrderStatus)
	api.POST("/connections", s.RegisterConnection)
	api.DELETE("/connections/:connectionId", s.UnregisterConnection)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	TenantID string `json:"tenantId"`
	Items    []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"paymentMethod"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// CreateOrderResponse acknowledges an accepted order request.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders. Validation against the catalog
// runs after the request is acknowledged, so the endpoint answers 202 with
// a tracking identifier rather than 201 with the order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	tenantID := request.TenantID
	if tenantID == "" {
		tenantID = actor.TenantID
	}

	lines := make([]commands.OrderLine, 0, len(request.Items))
	for _, item := range request.Items {
		lines = append(lines, commands.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPrepareOrderCommand(
		orderID,
		tenantID,
		actor.UserID,
		lines,
		request.Notes,
		request.PaymentMethod,
		request.DeliveryAddress,
	)
	if err != nil {
		return errorJSON(ctx, err)
	}

	s.intake.SubmitAsync(cmd)

	return ctx.JSON(http.StatusAccepted, CreateOrderResponse{
		OrderID: orderID.String(),
		Status:  "ACCEPTED",
	})
}

// ChangeOrderStatusRequest is the body of PUT /api/v1/orders/:orderId/status.
type ChangeOrderStatusRequest struct {
	Status string `json:"status"`
}

// ChangeOrderStatusResponse reports an applied transition.
type ChangeOrderStatusResponse struct {
	OrderID        string    `json:"orderId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ChangeOrderStatus handles PUT /api/v1/orders/:orderId/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	var request ChangeOrderStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	newStatus, err := order.StatusFromString(request.Status)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, newStatus, actor)
	if err != nil {
		return errorJSON(ctx, err)
	}

	updatedOrder, change, err := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ChangeOrderStatusResponse{
		OrderID:        updatedOrder.ID().String(),
		PreviousStatus: change.Previous.String(),
		NewStatus:      change.New.String(),
		UpdatedAt:      change.UpdatedAt,
	})
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return errorJSON(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveOrders handles GET /api/v1/orders/active. Staff only: the
// result covers the whole tenant.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if !actor.Role.IsStaff() {
		return errorJSON(ctx, errs.NewPermissionDeniedError("only staff can list tenant orders"))
	}

	query, err := queries.NewGetActiveOrdersQuery(actor.TenantID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	response, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterConnectionRequest is the body of POST /api/v1/connections.
type RegisterConnectionRequest struct {
	ConnectionID string `json:"connectionId"`
}

// RegisterConnection handles POST /api/v1/connections.
func (s *Server) RegisterConnection(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var request RegisterConnectionRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRegisterConnectionCommand(
		request.ConnectionID, actor.UserID, actor.TenantID, actor.Role)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.registerConnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// UnregisterConnection handles DELETE /api/v1/connections/:connectionId.
func (s *Server) UnregisterConnection(ctx echo.Context) error {
	cmd, err := commands.NewUnregisterConnectionCommand(ctx.Param("connectionId"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err := s.unregisterConnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// actorFromHeaders builds the acting identity from the gateway headers.
// Customers may omit the tenant header; their tenant context comes from the
// orders they own. For actor validation purposes a customer without a
// tenant gets the pseudo-tenant of the request body, so here we only
// require identity and role.
func actorFromHeaders(ctx echo.Context) (order.Actor, error) {
	userID := ctx.Request().Header.Get(HeaderUserID)
	if userID == "" {
		return order.Actor{}, errs.NewValueIsRequiredError(HeaderUserID)
	}

	role, err := kernel.RoleFromString(ctx.Request().Header.Get(HeaderUserRole))
	if err != nil {
		return order.Actor{}, err
	}

	return order.Actor{
		UserID:   userID,
		TenantID: ctx.Request().Header.Get(HeaderTenantID),
		Role:     role,
	}, nil
}

// errorJSON maps the error taxonomy to HTTP responses. Clients branch on
// the machine-readable code, not the message.
func errorJSON(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrPermissionDenied):
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    "FORBIDDEN",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConcurrentModification):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	}
}
