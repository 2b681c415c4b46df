package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStalledOrdersQueryHandler looks for orders stuck mid-lifecycle. An
// order is stalled when its latest history entry is older than the cutoff
// and its status is neither completed nor cancelled.
type GetStalledOrdersQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

// NewGetStalledOrdersQueryHandler creates a handler for stalled-order queries.
func NewGetStalledOrdersQueryHandler(db *gorm.DB, clock ports.Clock) GetStalledOrdersQueryHandler {
	return GetStalledOrdersQueryHandler{db: db, clock: clock}
}

// Handle executes the query against the current time minus the threshold.
func (h GetStalledOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStalledOrdersQuery,
) ([]GetStalledOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cutoff := h.clock.Now().Add(-query.OlderThan())

	stalled := make([]GetStalledOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.tenant_id,
			o.status,
			MAX(h.created_at) AS last_change_at
		FROM orders o
		JOIN order_history h ON h.order_id = o.id
		WHERE o.status NOT IN (?, ?)
		GROUP BY o.id, o.tenant_id, o.status
		HAVING MAX(h.created_at) < ?
		ORDER BY last_change_at
	`, order.Completed, order.Cancelled, cutoff).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			tenantID     uuid.UUID
			rawStatus    int
			lastChangeAt time.Time
		)

		if err = rows.Scan(&id, &tenantID, &rawStatus, &lastChangeAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		tID, tErr := kernel.UUIDFromBytes(tenantID[:])
		if tErr != nil {
			return nil, tErr
		}

		stalled = append(stalled, GetStalledOrdersQueryResponse{
			OrderID:      orderID,
			TenantID:     tID,
			Status:       order.Status(rawStatus),
			LastChangeAt: lastChangeAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stalled, nil
}
