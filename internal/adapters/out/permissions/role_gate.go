// Package permissions provides the default role-based permission gate. The
// lifecycle core treats authorization as an external decision; this adapter
// is the in-process implementation used when no external authorization
// service is wired in.
package permissions

import (
	"context"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// edge is one directed transition of the lifecycle table.
type edge struct {
	from order.Status
	to   order.Status
}

// RoleGate grants transitions per role:
//
//   - admin, manager and staff may perform every transition of the table
//   - couriers handle only the delivery leg: ready -> out_for_delivery,
//     out_for_delivery -> ready and out_for_delivery -> completed
//   - customers may only cancel from pending or accepted
//   - the system actor is unrestricted
//
// The gate never widens the transition table. It only narrows it; an edge
// absent from the table stays forbidden regardless of role.
type RoleGate struct {
	courierEdges  map[edge]bool
	customerEdges map[edge]bool
}

// NewRoleGate creates the default role-based gate.
func NewRoleGate() *RoleGate {
	return &RoleGate{
		courierEdges: map[edge]bool{
			{order.Ready, order.OutForDelivery}:     true,
			{order.OutForDelivery, order.Ready}:     true,
			{order.OutForDelivery, order.Completed}: true,
		},
		customerEdges: map[edge]bool{
			{order.Pending, order.Cancelled}:  true,
			{order.Accepted, order.Cancelled}: true,
		},
	}
}

// Check reports whether the actor's role permits the transition. Tenant
// scoping happens in the repositories; the default gate does not use the
// tenant id beyond receiving it.
func (g *RoleGate) Check(
	_ context.Context,
	by actor.Actor,
	_ kernel.UUID,
	currentStatus, targetStatus order.Status,
) (bool, error) {
	if err := by.Validate(); err != nil {
		return false, err
	}

	if by.IsSystem() {
		return true, nil
	}

	switch by.Role() {
	case actor.RoleAdmin, actor.RoleManager, actor.RoleStaff:
		return true, nil
	case actor.RoleCourier:
		return g.courierEdges[edge{currentStatus, targetStatus}], nil
	case actor.RoleCustomer:
		return g.customerEdges[edge{currentStatus, targetStatus}], nil
	case actor.RoleUnknown:
		return false, nil
	}

	return false, nil
}
