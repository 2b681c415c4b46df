package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// HistoryRepository defines the persistence contract for the append-only
// audit trail. There is deliberately no update or delete operation:
// history entries are immutable facts.
type HistoryRepository interface {
	// Append inserts one history entry. The storage enforces uniqueness of
	// (order_id, idempotency_key); an insert that violates it returns an
	// idempotency-key-conflict error so the caller can replay the recorded
	// outcome instead.
	Append(ctx context.Context, entry *order.HistoryEntry) error

	// GetByOrder returns the full trail of an order, ascending by creation
	// time. The sequence reconstructs the order's timeline exactly.
	GetByOrder(ctx context.Context, tenantID, orderID kernel.UUID) ([]*order.HistoryEntry, error)

	// GetByIdempotencyKey returns the entry previously recorded for the
	// given key on the given order, or an object-not-found error.
	GetByIdempotencyKey(ctx context.Context, tenantID, orderID kernel.UUID, key string) (*order.HistoryEntry, error)
}
