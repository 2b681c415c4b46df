package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an actor. The observation is mandatory for
// reversal edges; the idempotency key, when supplied, makes a retried
// request take effect exactly once.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(
//	    orderID, tenantID, staffActor, order.Accepted, "", "req-42")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	tenantID       kernel.UUID
	by             actor.Actor
	targetStatus   order.Status
	observation    string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition command. Validates the
// identifiers, the acting identity and the target status; whether the edge
// itself is legal is decided by the aggregate inside the transaction.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	tenantID kernel.UUID,
	by actor.Actor,
	targetStatus order.Status,
	observation string,
	idempotencyKey string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		observation:    observation,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTenantID(tenantID),
		cmd.setBy(by),
		cmd.setTargetStatus(targetStatus),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TenantID returns the identifier of the owning business.
func (c TransitionOrderCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// By returns the actor requesting the transition.
func (c TransitionOrderCommand) By() actor.Actor {
	return c.by
}

// TargetStatus returns the requested destination status.
func (c TransitionOrderCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// Observation returns the justification text, possibly empty.
func (c TransitionOrderCommand) Observation() string {
	return c.observation
}

// IdempotencyKey returns the caller-supplied retry token, possibly empty.
func (c TransitionOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *TransitionOrderCommand) setBy(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}

	c.by = by
	return nil
}

func (c *TransitionOrderCommand) setTargetStatus(targetStatus order.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return err
	}

	c.targetStatus = targetStatus
	return nil
}
