// Package http exposes the order lifecycle over a JSON API. The caller's
// identity arrives in headers (X-Tenant-ID, X-Actor-ID, X-Actor-Name,
// X-Actor-Role): authentication is assumed to have happened upstream, this
// layer only translates the asserted identity into a domain actor.
package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerTenantID  = "X-Tenant-ID"
	headerActorID   = "X-Actor-ID"
	headerActorName = "X-Actor-Name"
	headerActorRole = "X-Actor-Role"
)

// Error is the JSON body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreatedOrder is the body of a successful order creation.
type CreatedOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TransitionRequest is the body of a transition attempt.
type TransitionRequest struct {
	TargetStatus   string `json:"target_status"`
	Observation    string `json:"observation,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// TransitionOutcome reports an applied (or idempotently replayed) transition.
type TransitionOutcome struct {
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	HistoryEntryID string `json:"history_entry_id"`
}

// HistoryEntry is one row of an order's audit trail.
type HistoryEntry struct {
	ID          string  `json:"id"`
	PrevStatus  *string `json:"prev_status"`
	NewStatus   string  `json:"new_status"`
	ActorID     *string `json:"actor_id"`
	ActorName   string  `json:"actor_name"`
	Observation *string `json:"observation"`
	CreatedAt   string  `json:"created_at"`
}

// AllowedActions lists the statuses the caller may move the order to.
type AllowedActions struct {
	CurrentTargets []string `json:"allowed_targets"`
}

// ActiveOrder is one row of the tenant's active-orders listing.
type ActiveOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Server wires HTTP routes to the application use cases.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler

	getOrderHistoryHandler   queries.GetOrderHistoryQueryHandler
	getAllowedActionsHandler queries.GetAllowedActionsQueryHandler
	getActiveOrdersHandler   queries.GetActiveOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
	getAllowedActionsHandler queries.GetAllowedActionsQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		transitionOrderHandler:   transitionOrderHandler,
		getOrderHistoryHandler:   getOrderHistoryHandler,
		getAllowedActionsHandler: getAllowedActionsHandler,
		getActiveOrdersHandler:   getActiveOrdersHandler,
	}
}

// RegisterRoutes attaches the API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:orderID/transitions", s.TransitionOrder)
	api.GET("/orders/:orderID/history", s.GetOrderHistory)
	api.GET("/orders/:orderID/allowed-actions", s.GetAllowedActions)
}

// CreateOrder handles POST /api/v1/orders - creates a new pending order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	tenantID, by, err := identityFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, tenantID, by)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapDomainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{
		ID:     orderID.String(),
		Status: order.Pending.String(),
	})
}

// TransitionOrder handles POST /api/v1/orders/:orderID/transitions - attempts
// one lifecycle transition.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	tenantID, by, err := identityFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	targetStatus, err := order.StatusFromString(req.TargetStatus)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid target status: "+req.TargetStatus)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, tenantID, by,
		targetStatus, req.Observation, req.IdempotencyKey)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid transition data: "+err.Error())
	}

	result, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionOutcome{
		PreviousStatus: result.PreviousStatus.String(),
		NewStatus:      result.NewStatus.String(),
		HistoryEntryID: result.HistoryEntryID.String(),
	})
}

// GetOrderHistory handles GET /api/v1/orders/:orderID/history - returns the
// order's audit trail in chronological order.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	tenantID, _, err := identityFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderHistoryQuery(tenantID, orderID)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	entries, err := s.getOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	response := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		row := HistoryEntry{
			ID:          entry.ID.String(),
			NewStatus:   entry.NewStatus.String(),
			ActorName:   entry.ActorName,
			Observation: entry.Observation,
			CreatedAt:   entry.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		}
		if entry.PrevStatus != nil {
			prev := entry.PrevStatus.String()
			row.PrevStatus = &prev
		}
		if entry.ActorID != nil {
			id := entry.ActorID.String()
			row.ActorID = &id
		}
		response[i] = row
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAllowedActions handles GET /api/v1/orders/:orderID/allowed-actions -
// returns the transitions available to the calling actor right now.
func (s *Server) GetAllowedActions(ctx echo.Context) error {
	tenantID, by, err := identityFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetAllowedActionsQuery(tenantID, orderID, by)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	targets, err := s.getAllowedActionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	names := make([]string, len(targets))
	for i, target := range targets {
		names[i] = target.String()
	}

	return ctx.JSON(http.StatusOK, AllowedActions{CurrentTargets: names})
}

// GetActiveOrders handles GET /api/v1/orders/active - lists the tenant's
// non-completed orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	tenantID, _, err := identityFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetActiveOrdersQuery(tenantID)
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, err.Error())
	}

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	response := make([]ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrder{
			ID:     o.ID.String(),
			Status: o.Status.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// identityFromHeaders builds the tenant id and acting identity from the
// request headers.
func identityFromHeaders(ctx echo.Context) (kernel.UUID, actor.Actor, error) {
	tenantID, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerTenantID))
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, errors.New("missing or invalid " + headerTenantID + " header")
	}

	actorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, errors.New("missing or invalid " + headerActorID + " header")
	}

	role, err := actor.RoleFromString(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, errors.New("missing or invalid " + headerActorRole + " header")
	}

	by, err := actor.NewActor(actorID, ctx.Request().Header.Get(headerActorName), role)
	if err != nil {
		return kernel.UUID{}, actor.Actor{}, errors.New("missing or invalid " + headerActorName + " header")
	}

	return tenantID, by, nil
}

// mapDomainError translates the error taxonomy to HTTP status codes:
// not-found 404, permission 403, concurrency and idempotency conflicts 409,
// policy rejections 422, bad input 400, anything else 500.
func mapDomainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return respondError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, commands.ErrPermissionDenied),
		errors.Is(err, order.ErrCustomerForbidden):
		return respondError(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, errs.ErrIdempotencyKeyConflict):
		return respondError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrObservationRequired):
		return respondError(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return respondError(ctx, http.StatusBadRequest, err.Error())
	default:
		return respondError(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func respondError(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}
