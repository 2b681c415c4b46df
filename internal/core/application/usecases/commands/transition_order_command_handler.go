package commands

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrPermissionDenied is returned when the permission gate rejects the
	// actor for the requested transition.
	ErrPermissionDenied = errors.New("actor is not permitted to perform this transition")
)

const (
	storageRetryAttempts = 3
	storageRetryBackoff  = 50 * time.Millisecond
)

// TransitionResult is the typed outcome of a successfully applied (or
// idempotently replayed) transition.
type TransitionResult struct {
	PreviousStatus order.Status
	NewStatus      order.Status
	HistoryEntryID kernel.UUID
}

// TransitionOrderCommandHandler orchestrates one lifecycle transition:
//
//  1. begin a transaction
//  2. replay the recorded outcome if the idempotency key was seen before
//  3. load the order tenant-scoped
//  4. consult the permission gate, then the customer rule
//  5. apply the transition on the aggregate (policy + observation checks)
//  6. persist the order under its optimistic version and append the
//     history entry
//  7. commit
//
// Every failure rolls the transaction back whole; a lost race against a
// concurrent writer surfaces as a concurrent-modification error that is
// never retried here — the caller must re-read and decide. Only transient
// connection failures are retried, a bounded number of times.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	gate       ports.PermissionGate
	clock      ports.Clock
	window     services.CancellationWindowPolicy
}

// NewTransitionOrderCommandHandler creates the transition handler.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	gate ports.PermissionGate,
	clock ports.Clock,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		gate:       gate,
		clock:      clock,
		window:     services.NewCancellationWindowPolicy(),
	}
}

// Handle processes the transition command and returns its typed outcome.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	var (
		result TransitionResult
		err    error
	)

	for attempt := range storageRetryAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return TransitionResult{}, ctx.Err()
			case <-time.After(storageRetryBackoff * time.Duration(attempt)):
			}
		}

		result, err = h.handleOnce(ctx, cmd)
		if err == nil || !isTransientStorageError(err) {
			return result, err
		}
	}

	return result, err
}

func (h *TransitionOrderCommandHandler) handleOnce(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (TransitionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	historyRepo := uow.HistoryRepository()

	if cmd.IdempotencyKey() != "" {
		prior, err := historyRepo.GetByIdempotencyKey(ctx, cmd.TenantID(), cmd.OrderID(), cmd.IdempotencyKey())
		if err == nil {
			return resultFromEntry(prior), nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return TransitionResult{}, err
		}
	}

	aggregate, err := orderRepo.Get(ctx, cmd.TenantID(), cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	allowed, err := h.gate.Check(ctx, cmd.By(), cmd.TenantID(), aggregate.Status(), cmd.TargetStatus())
	if err != nil {
		return TransitionResult{}, err
	}
	if !allowed {
		return TransitionResult{}, ErrPermissionDenied
	}

	if cmd.By().IsCustomer() {
		blocked := !aggregate.Status().IsCustomerAllowed(cmd.TargetStatus())
		if cmd.TargetStatus() == order.Cancelled {
			blocked = !h.window.CanCustomerCancel(aggregate)
		}
		if blocked {
			return TransitionResult{}, order.NewCustomerForbiddenError(aggregate.Status(), cmd.TargetStatus())
		}
	}

	previousStatus := aggregate.Status()
	if err = aggregate.TransitionTo(cmd.TargetStatus(), cmd.Observation(), h.clock.Now()); err != nil {
		return TransitionResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return TransitionResult{}, err
	}

	entry, err := order.NewHistoryEntry(
		kernel.NewUUID(),
		cmd.OrderID(),
		cmd.TenantID(),
		previousStatus,
		cmd.TargetStatus(),
		cmd.By(),
		cmd.Observation(),
		cmd.IdempotencyKey(),
		h.clock.Now(),
	)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = historyRepo.Append(ctx, entry); err != nil {
		if errors.Is(err, errs.ErrIdempotencyKeyConflict) {
			// Lost a same-key race: the winner's entry is the recorded
			// outcome for this request.
			_ = uow.Rollback(ctx)
			return h.replayRecordedOutcome(ctx, cmd)
		}
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{
		PreviousStatus: previousStatus,
		NewStatus:      cmd.TargetStatus(),
		HistoryEntryID: entry.ID(),
	}, nil
}

// replayRecordedOutcome reads the committed entry for the command's
// idempotency key in a fresh transaction and rebuilds its outcome.
func (h *TransitionOrderCommandHandler) replayRecordedOutcome(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (TransitionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	prior, err := uow.HistoryRepository().GetByIdempotencyKey(ctx, cmd.TenantID(), cmd.OrderID(), cmd.IdempotencyKey())
	if err != nil {
		return TransitionResult{}, err
	}

	return resultFromEntry(prior), nil
}

func resultFromEntry(entry *order.HistoryEntry) TransitionResult {
	previous := order.Unknown
	if prev := entry.PrevStatus(); prev != nil {
		previous = *prev
	}

	return TransitionResult{
		PreviousStatus: previous,
		NewStatus:      entry.NewStatus(),
		HistoryEntryID: entry.ID(),
	}
}

// isTransientStorageError reports whether the error looks like a recoverable
// connection failure rather than a business rejection or a conflict.
func isTransientStorageError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
