package historyrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB, tracker aggregateTracker) *GormHistoryRepository {
	return &GormHistoryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Append inserts one history entry. A violation of the unique
// (order_id, idempotency_key) index surfaces as ErrIdempotencyKeyConflict
// so the caller can replay the recorded outcome.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *order.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrIdempotencyKeyConflict
		}
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

// GetByOrder returns an order's full trail, ascending by creation time with
// the entry id as tiebreaker.
func (r *GormHistoryRepository) GetByOrder(
	ctx context.Context,
	tenantID, orderID kernel.UUID,
) ([]*order.HistoryEntry, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	var dtos []HistoryEntryDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "tenant_id = ? AND order_id = ?", tenantID.Bytes(), orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	entries := make([]*order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetByIdempotencyKey returns the entry previously recorded for the given
// key on the given order, or an object-not-found error when no attempt with
// that key was ever committed.
func (r *GormHistoryRepository) GetByIdempotencyKey(
	ctx context.Context,
	tenantID, orderID kernel.UUID,
	key string,
) (*order.HistoryEntry, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto HistoryEntryDTO
	if err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND order_id = ? AND idempotency_key = ?",
			tenantID.Bytes(), orderID.Bytes(), key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("history entry", key)
		}
		return nil, err
	}

	return toDomain(dto)
}
