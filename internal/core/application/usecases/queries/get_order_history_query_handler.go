package queries

import (
	"context"
	"database/sql"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads an order's audit trail from the database.
//
// Example:
//
//	handler := NewGetOrderHistoryQueryHandler(db)
//	query, _ := NewGetOrderHistoryQuery(tenantID, orderID)
//	entries, err := handler.Handle(ctx, query)
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query. Entries come back ascending by created_at,
// with the entry id as a tiebreaker for identical timestamps.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			prev_status,
			new_status,
			actor_id,
			actor_name,
			observation,
			created_at
		FROM order_history
		WHERE tenant_id = ? AND order_id = ?
		ORDER BY created_at, id
	`, query.TenantID().Bytes(), query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			prevStatus  sql.NullInt32
			newStatus   int
			actorID     uuid.NullUUID
			actorName   string
			observation sql.NullString
			createdAt   time.Time
		)

		if err = rows.Scan(&id, &prevStatus, &newStatus, &actorID, &actorName, &observation, &createdAt); err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetOrderHistoryQueryResponse{
			ID:        entryID,
			NewStatus: order.Status(newStatus),
			ActorName: actorName,
			CreatedAt: createdAt,
		}

		if prevStatus.Valid {
			prev := order.Status(prevStatus.Int32)
			resp.PrevStatus = &prev
		}
		if actorID.Valid {
			aID, aErr := kernel.UUIDFromBytes(actorID.UUID[:])
			if aErr != nil {
				return nil, aErr
			}
			resp.ActorID = &aID
		}
		if observation.Valid {
			obs := observation.String
			resp.Observation = &obs
		}

		entries = append(entries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
