// Package historyrepo provides data transfer objects and mapping functions
// for the append-only audit trail. A partial unique index on
// (order_id, idempotency_key) is the storage-level idempotency guarantee:
// Postgres treats NULL keys as distinct, so entries without a key never
// collide.
package historyrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// HistoryEntryDTO represents the database row for one audit trail entry.
// Rows are insert-only; there is no update path.
type HistoryEntryDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:ux_order_history_idempotency,priority:1"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`

	PrevStatus *int
	NewStatus  int

	ActorID     *uuid.UUID `gorm:"type:uuid"`
	ActorName   string
	Observation *string

	IdempotencyKey *string           `gorm:"uniqueIndex:ux_order_history_idempotency,priority:2"`
	Metadata       map[string]string `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming convention to use "order_history".
func (HistoryEntryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts a history entry to its database representation.
func fromDomain(entry *order.HistoryEntry) HistoryEntryDTO {
	var prevStatus *int
	if prev := entry.PrevStatus(); prev != nil {
		raw := int(*prev)
		prevStatus = &raw
	}

	var actorID *uuid.UUID
	if id := entry.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return HistoryEntryDTO{
		ID:             entry.ID().Bytes(),
		OrderID:        entry.OrderID().Bytes(),
		TenantID:       entry.TenantID().Bytes(),
		PrevStatus:     prevStatus,
		NewStatus:      int(entry.NewStatus()),
		ActorID:        actorID,
		ActorName:      entry.ActorName(),
		Observation:    entry.Observation(),
		IdempotencyKey: entry.IdempotencyKey(),
		Metadata:       entry.Metadata(),
		CreatedAt:      entry.CreatedAt(),
	}
}

// toDomain reconstructs a history entry from a database row.
func toDomain(dto HistoryEntryDTO) (*order.HistoryEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	var prevStatus *order.Status
	if dto.PrevStatus != nil {
		prev := order.Status(*dto.PrevStatus)
		prevStatus = &prev
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		aID, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}
		actorID = &aID
	}

	return order.RestoreHistoryEntry(id, orderID, tenantID, prevStatus,
		order.Status(dto.NewStatus), actorID, dto.ActorName, dto.Observation,
		dto.IdempotencyKey, dto.Metadata, dto.CreatedAt)
}
