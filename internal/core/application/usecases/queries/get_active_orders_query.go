package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists a tenant's orders that have not reached the
// terminal completed status: the working set shown on an operations board.
//
// Example:
//
//	query, _ := NewGetActiveOrdersQuery(tenantID)
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	tenantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for a tenant's non-completed orders.
func NewGetActiveOrdersQuery(tenantID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}

	return GetActiveOrdersQuery{
		tenantID: tenantID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// TenantID returns the identifier of the owning business.
func (q GetActiveOrdersQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// GetActiveOrdersQueryResponse is one row of the active-orders board.
type GetActiveOrdersQueryResponse struct {
	ID     kernel.UUID
	Status order.Status
}
