package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// DefaultCancellationReason is recorded when an order is cancelled without
// an observation (possible only on the customer-cancel edges, which do not
// require one).
const DefaultCancellationReason = "no reason provided"

// StageTimestamps holds the most recent time the order entered each stage.
// A nil field means the stage was never entered. Once set, a field is never
// cleared; it is only overwritten when the stage is re-entered forward.
type StageTimestamps struct {
	AcceptedAt       *time.Time
	PreparingAt      *time.Time
	ReadyAt          *time.Time
	OutForDeliveryAt *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// copied returns a StageTimestamps whose pointers do not alias the receiver's.
func (s StageTimestamps) copied() StageTimestamps {
	return StageTimestamps{
		AcceptedAt:       copyTime(s.AcceptedAt),
		PreparingAt:      copyTime(s.PreparingAt),
		ReadyAt:          copyTime(s.ReadyAt),
		OutForDeliveryAt: copyTime(s.OutForDeliveryAt),
		CompletedAt:      copyTime(s.CompletedAt),
		CancelledAt:      copyTime(s.CancelledAt),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Order is the aggregate root for one delivery order's lifecycle. It holds
// the current status, the per-stage timestamps and the cancellation reason,
// and enforces the transition policy in TransitionTo.
//
// Order follows these invariants:
//   - Must have valid order and tenant identifiers
//   - Status moves only along edges of the transition table
//   - Reversal edges demand a non-blank observation
//   - Stage timestamps are never cleared, only overwritten on forward re-entry
//   - Can only be created through NewOrder or RestoreOrder
//
// The version field is an optimistic concurrency counter; the repository
// refuses an update whose version no longer matches the stored row, which
// serializes concurrent writers of the same order.
type Order struct {
	id       kernel.UUID
	tenantID kernel.UUID

	status             Status
	stamps             StageTimestamps
	cancellationReason *string

	version int

	isConstructed bool
}

// NewOrder creates a fresh order in Pending status with version 1.
// The caller is responsible for appending the matching seed history entry
// in the same transaction.
func NewOrder(id kernel.UUID, tenantID kernel.UUID) (*Order, error) {
	o := &Order{
		status:        Pending,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence. It validates the
// identifiers, status and version so corrupt rows cannot become live
// aggregates.
func RestoreOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	status Status,
	stamps StageTimestamps,
	cancellationReason *string,
	version int,
) (*Order, error) {
	o := &Order{
		stamps:        stamps.copied(),
		isConstructed: true,
	}

	if cancellationReason != nil {
		reason := *cancellationReason
		o.cancellationReason = &reason
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setStatus(status),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for zero-value instances.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the identifier of the business owning the order.
func (o *Order) TenantID() kernel.UUID {
	return o.tenantID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Version returns the optimistic concurrency counter as loaded.
func (o *Order) Version() int {
	return o.version
}

// StageTimestamps returns a copy of the per-stage timestamps. Mutating the
// returned pointers does not touch the aggregate.
func (o *Order) StageTimestamps() StageTimestamps {
	return o.stamps.copied()
}

// CancellationReason returns the recorded cancellation reason, or nil if
// the order was never cancelled. The value survives reactivation.
func (o *Order) CancellationReason() *string {
	if o.cancellationReason == nil {
		return nil
	}
	reason := *o.cancellationReason
	return &reason
}

// TransitionTo moves the order to target at the given time, enforcing the
// transition policy:
//
//   - the edge must exist in the transition table, else InvalidTransitionError
//   - reversal edges require a non-blank observation, else ErrObservationRequired
//
// Forward edges overwrite the stage timestamp owned by the destination;
// reversal edges write no timestamp at all, which is the mechanism that
// preserves the forensic history. Entering Cancelled also records the
// cancellation reason (the observation, or DefaultCancellationReason).
//
// Permission and customer-class checks belong to the caller: they depend on
// the actor, which the aggregate does not know about.
func (o *Order) TransitionTo(target Status, observation string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := target.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}

	if o.status.RequiresObservation(target) && strings.TrimSpace(observation) == "" {
		return ErrObservationRequired
	}

	if !o.status.IsReversal(target) {
		o.stampStage(target, now)
	}

	if target == Cancelled {
		reason := strings.TrimSpace(observation)
		if reason == "" {
			reason = DefaultCancellationReason
		}
		o.cancellationReason = &reason
	}

	o.status = target
	return nil
}

// stampStage overwrites the timestamp field owned by the destination
// status. Pending owns no field: its entry time is the order's creation.
func (o *Order) stampStage(target Status, now time.Time) {
	switch target {
	case Accepted:
		o.stamps.AcceptedAt = &now
	case Preparing:
		o.stamps.PreparingAt = &now
	case Ready:
		o.stamps.ReadyAt = &now
	case OutForDelivery:
		o.stamps.OutForDeliveryAt = &now
	case Completed:
		o.stamps.CompletedAt = &now
	case Cancelled:
		o.stamps.CancelledAt = &now
	case Pending, Unknown:
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	o.tenantID = tenantID
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidErrorWithCause("order version",
			fmt.Errorf("%d is not a positive version", version))
	}
	o.version = version
	return nil
}
