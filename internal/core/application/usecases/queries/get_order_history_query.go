// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers read
// directly from the database into flat response structs, bypassing the
// aggregates, and never modify state.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
		"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
	)
)

// GetOrderHistoryQuery retrieves the full audit trail of one order,
// ascending by creation time. The sequence reconstructs the order's
// timeline: dwell time per state, reversal justifications, acting
// identities.
//
// Example:
//
//	query, _ := NewGetOrderHistoryQuery(tenantID, orderID)
//	entries, err := handler.Handle(ctx, query)
type GetOrderHistoryQuery struct {
	tenantID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a history query scoped to one tenant.
func NewGetOrderHistoryQuery(tenantID, orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{
		tenantID: tenantID,
		orderID:  orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// TenantID returns the identifier of the owning business.
func (q GetOrderHistoryQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// OrderID returns the identifier of the order whose trail is requested.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderHistoryQueryResponse is one audit-trail row. PrevStatus is nil
// only for the seed entry; ActorID is nil for system transitions.
type GetOrderHistoryQueryResponse struct {
	ID          kernel.UUID
	PrevStatus  *order.Status
	NewStatus   order.Status
	ActorID     *kernel.UUID
	ActorName   string
	Observation *string
	CreatedAt   time.Time
}
