package ports

import (
	"context"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// PermissionGate is the external authorization boundary. It decides whether
// an actor may perform a specific transition within a tenant. The lifecycle
// core consults it on every transition and on every allowed-actions query;
// the decision logic itself belongs to the surrounding system.
type PermissionGate interface {
	// Check reports whether the actor may move an order of the given tenant
	// from currentStatus to targetStatus. An error signals the gate itself
	// failed, not that permission was denied.
	Check(ctx context.Context, by actor.Actor, tenantID kernel.UUID, currentStatus, targetStatus order.Status) (bool, error)
}
