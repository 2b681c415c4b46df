// Package ports defines the contracts between the domain core and
// infrastructure: repositories, the unit of work, the permission gate and
// the clock. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every read is scoped by tenant: rows of other tenants are invisible even
// if the order id is guessed.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, guarded by the
	// aggregate's optimistic version: if another writer committed first, the
	// update affects no rows and a concurrent-modification error is returned.
	// On success the stored version is the aggregate's version plus one.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id within a tenant.
	// Returns an object-not-found error when no such row exists.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error)
}
