// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It converts between the order aggregate and its
// relational representation, including the per-stage timestamp columns and
// the optimistic version counter.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database row for an order aggregate. Stage
// timestamp columns are nullable: nil means the stage was never entered.
type OrderDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	Status   int       `gorm:"index"`

	AcceptedAt       *time.Time
	PreparingAt      *time.Time
	ReadyAt          *time.Time
	OutForDeliveryAt *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time

	CancellationReason *string

	Version int
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	stamps := aggregate.StageTimestamps()

	return OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		TenantID:           aggregate.TenantID().Bytes(),
		Status:             int(aggregate.Status()),
		AcceptedAt:         stamps.AcceptedAt,
		PreparingAt:        stamps.PreparingAt,
		ReadyAt:            stamps.ReadyAt,
		OutForDeliveryAt:   stamps.OutForDeliveryAt,
		CompletedAt:        stamps.CompletedAt,
		CancelledAt:        stamps.CancelledAt,
		CancellationReason: aggregate.CancellationReason(),
		Version:            aggregate.Version(),
	}
}

// toDomain reconstructs the order aggregate from a database row.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	stamps := order.StageTimestamps{
		AcceptedAt:       dto.AcceptedAt,
		PreparingAt:      dto.PreparingAt,
		ReadyAt:          dto.ReadyAt,
		OutForDeliveryAt: dto.OutForDeliveryAt,
		CompletedAt:      dto.CompletedAt,
		CancelledAt:      dto.CancelledAt,
	}

	return order.RestoreOrder(id, tenantID, order.Status(dto.Status), stamps,
		dto.CancellationReason, dto.Version)
}
