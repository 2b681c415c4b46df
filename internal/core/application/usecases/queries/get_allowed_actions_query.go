package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetAllowedActionsQueryIsNotConstructed = errors.New(
		"GetAllowedActionsQuery must be created via NewGetAllowedActionsQuery constructor",
	)
)

// GetAllowedActionsQuery asks which statuses the given actor may move an
// order to right now: the policy's allowed targets filtered by role
// permission and, for customers, by the customer rule. UIs use the answer
// to render exactly the buttons that will work.
//
// Example:
//
//	query, _ := NewGetAllowedActionsQuery(tenantID, orderID, staffActor)
//	targets, err := handler.Handle(ctx, query)
type GetAllowedActionsQuery struct {
	tenantID kernel.UUID
	orderID  kernel.UUID
	by       actor.Actor

	guard guard.ConstructorGuard
}

// NewGetAllowedActionsQuery creates an allowed-actions query.
func NewGetAllowedActionsQuery(tenantID, orderID kernel.UUID, by actor.Actor) (GetAllowedActionsQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate(), by.Validate()); err != nil {
		return GetAllowedActionsQuery{}, err
	}

	return GetAllowedActionsQuery{
		tenantID: tenantID,
		orderID:  orderID,
		by:       by,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllowedActionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedActionsQueryIsNotConstructed)
}

// TenantID returns the identifier of the owning business.
func (q GetAllowedActionsQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// OrderID returns the identifier of the order.
func (q GetAllowedActionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// By returns the actor asking for their available actions.
func (q GetAllowedActionsQuery) By() actor.Actor {
	return q.by
}
