package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// A new order and its seed history entry (prev_status null, new_status
// pending) are written in one transaction, so the trail invariant — status
// equals the latest entry's new_status — holds from the first row on.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, clock ports.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle processes the order creation command.
// Uses a transaction to ensure the order row and the seed history entry are
// persisted together or not at all.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.TenantID())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	seed, err := order.NewSeedHistoryEntry(
		kernel.NewUUID(),
		cmd.OrderID(),
		cmd.TenantID(),
		cmd.By(),
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.HistoryRepository().Append(ctx, seed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
