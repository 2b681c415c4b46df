package order

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrHistoryEntryIsNotConstructed is returned when a HistoryEntry was not
	// created through one of the constructor functions.
	ErrHistoryEntryIsNotConstructed = errors.New(
		"HistoryEntry must be created via NewHistoryEntry, NewSeedHistoryEntry or RestoreHistoryEntry")
)

// HistoryEntry is one immutable record in an order's audit trail. Entries
// are append-only: once persisted they are never updated or deleted, and
// the full sequence for an order reconstructs its timeline exactly.
//
// prevStatus is nil only for the seed entry written when the order is
// created. actorID is nil for transitions performed by the system actor.
// actorName is a denormalized snapshot taken at transition time.
type HistoryEntry struct {
	id       kernel.UUID
	orderID  kernel.UUID
	tenantID kernel.UUID

	prevStatus *Status
	newStatus  Status

	actorID     *kernel.UUID
	actorName   string
	observation *string

	idempotencyKey *string
	metadata       map[string]string
	createdAt      time.Time

	isConstructed bool
}

// NewHistoryEntry creates the audit record for one applied transition.
// A blank observation is stored as absent; a blank idempotency key means
// the caller supplied none.
func NewHistoryEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	tenantID kernel.UUID,
	prevStatus Status,
	newStatus Status,
	by actor.Actor,
	observation string,
	idempotencyKey string,
	createdAt time.Time,
) (*HistoryEntry, error) {
	prev := prevStatus
	entry := &HistoryEntry{
		prevStatus:    &prev,
		metadata:      map[string]string{},
		isConstructed: true,
	}

	if err := errors.Join(
		entry.setIDs(id, orderID, tenantID),
		prevStatus.Validate(),
		entry.setNewStatus(newStatus),
		entry.setActor(by),
		entry.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(observation); trimmed != "" {
		entry.observation = &trimmed
	}
	if idempotencyKey != "" {
		key := idempotencyKey
		entry.idempotencyKey = &key
	}

	return entry, nil
}

// NewSeedHistoryEntry creates the first entry of an order's trail, written
// in the same transaction as the order itself: no previous status, new
// status Pending.
func NewSeedHistoryEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	tenantID kernel.UUID,
	by actor.Actor,
	createdAt time.Time,
) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		newStatus:     Pending,
		metadata:      map[string]string{},
		isConstructed: true,
	}

	if err := errors.Join(
		entry.setIDs(id, orderID, tenantID),
		entry.setActor(by),
		entry.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// RestoreHistoryEntry reconstructs an entry from persistence.
func RestoreHistoryEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	tenantID kernel.UUID,
	prevStatus *Status,
	newStatus Status,
	actorID *kernel.UUID,
	actorName string,
	observation *string,
	idempotencyKey *string,
	metadata map[string]string,
	createdAt time.Time,
) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		actorName:     actorName,
		isConstructed: true,
	}

	validations := []error{
		entry.setIDs(id, orderID, tenantID),
		entry.setNewStatus(newStatus),
		entry.setCreatedAt(createdAt),
	}

	if prevStatus != nil {
		prev := *prevStatus
		validations = append(validations, prev.Validate())
		entry.prevStatus = &prev
	}
	if actorID != nil {
		aid := *actorID
		validations = append(validations, aid.Validate())
		entry.actorID = &aid
	}

	if err := errors.Join(validations...); err != nil {
		return nil, err
	}

	if observation != nil {
		obs := *observation
		entry.observation = &obs
	}
	if idempotencyKey != nil {
		key := *idempotencyKey
		entry.idempotencyKey = &key
	}

	entry.metadata = map[string]string{}
	for k, v := range metadata {
		entry.metadata[k] = v
	}

	return entry, nil
}

// Validate ensures the HistoryEntry was properly constructed.
func (e *HistoryEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrHistoryEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *HistoryEntry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the order this entry belongs to.
func (e *HistoryEntry) OrderID() kernel.UUID {
	return e.orderID
}

// TenantID returns the identifier of the business owning the order.
func (e *HistoryEntry) TenantID() kernel.UUID {
	return e.tenantID
}

// PrevStatus returns the status before the transition, or nil for the seed entry.
func (e *HistoryEntry) PrevStatus() *Status {
	if e.prevStatus == nil {
		return nil
	}
	prev := *e.prevStatus
	return &prev
}

// NewStatus returns the status after the transition.
func (e *HistoryEntry) NewStatus() Status {
	return e.newStatus
}

// ActorID returns the identifier of the acting identity, or nil for the
// system actor.
func (e *HistoryEntry) ActorID() *kernel.UUID {
	if e.actorID == nil {
		return nil
	}
	id := *e.actorID
	return &id
}

// ActorName returns the snapshot of the actor's display name.
func (e *HistoryEntry) ActorName() string {
	return e.actorName
}

// Observation returns the justification text supplied with the transition,
// or nil when none was given.
func (e *HistoryEntry) Observation() *string {
	if e.observation == nil {
		return nil
	}
	obs := *e.observation
	return &obs
}

// IdempotencyKey returns the caller-supplied retry token, or nil.
func (e *HistoryEntry) IdempotencyKey() *string {
	if e.idempotencyKey == nil {
		return nil
	}
	key := *e.idempotencyKey
	return &key
}

// Metadata returns a copy of the open key-value bag.
func (e *HistoryEntry) Metadata() map[string]string {
	out := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// CreatedAt returns the commit-ordered timestamp of the transition.
func (e *HistoryEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *HistoryEntry) setIDs(id, orderID, tenantID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate(), tenantID.Validate()); err != nil {
		return err
	}
	e.id = id
	e.orderID = orderID
	e.tenantID = tenantID
	return nil
}

func (e *HistoryEntry) setNewStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	e.newStatus = status
	return nil
}

func (e *HistoryEntry) setActor(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	e.actorID = by.ID()
	e.actorName = by.Name()
	return nil
}

func (e *HistoryEntry) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	e.createdAt = createdAt
	return nil
}
