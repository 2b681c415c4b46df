package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetStalledOrdersQueryIsNotConstructed = errors.New(
		"GetStalledOrdersQuery must be created via NewGetStalledOrdersQuery constructor",
	)
)

// GetStalledOrdersQuery finds orders, across all tenants, that sit in a
// non-terminal status with no lifecycle activity for longer than the given
// duration. Used by the stalled-order monitor job.
type GetStalledOrdersQuery struct {
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewGetStalledOrdersQuery creates a stalled-orders query. The duration must
// be positive.
func NewGetStalledOrdersQuery(olderThan time.Duration) (GetStalledOrdersQuery, error) {
	if olderThan <= 0 {
		return GetStalledOrdersQuery{}, errs.NewValueIsInvalidError("olderThan")
	}

	return GetStalledOrdersQuery{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStalledOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStalledOrdersQueryIsNotConstructed)
}

// OlderThan returns the inactivity threshold.
func (q GetStalledOrdersQuery) OlderThan() time.Duration {
	return q.olderThan
}

// GetStalledOrdersQueryResponse is one stalled order with the time of its
// last recorded lifecycle change.
type GetStalledOrdersQueryResponse struct {
	OrderID      kernel.UUID
	TenantID     kernel.UUID
	Status       order.Status
	LastChangeAt time.Time
}
