// Package actor provides the identity value object for whoever performs a
// lifecycle transition: internal staff (role-gated), a customer (gated by a
// narrower fixed rule), or the system itself for automated transitions.
package actor

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrActorIsNotConstructed is returned when an Actor instance was not
	// created through one of the constructor functions.
	ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor or NewSystemActor")
)

// Role classifies an actor within the business. Only the role (and the
// staff-versus-customer class it implies) matters to the lifecycle core.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleAdmin is the business owner or administrator.
	RoleAdmin

	// RoleManager runs day-to-day operations.
	RoleManager

	// RoleStaff works the counter or the kitchen.
	RoleStaff

	// RoleCourier delivers orders.
	RoleCourier

	// RoleCustomer placed the order. Customer actors are restricted to the
	// customer-allowed subset of transitions.
	RoleCustomer
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleAdmin:    "admin",
		RoleManager:  "manager",
		RoleStaff:    "staff",
		RoleCourier:  "courier",
		RoleCustomer: "customer",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleAdmin:    "admin",
		RoleManager:  "manager",
		RoleStaff:    "staff",
		RoleCourier:  "courier",
		RoleCustomer: "customer",
	}
}

// RoleFromString parses a wire name ("admin", "customer", ...) into a Role.
func RoleFromString(s string) (Role, error) {
	for role, name := range getValidRoleStrings() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks if the Role value is one of the five valid roles.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire name of the role, or "unknown" for invalid values.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Actor is the identity performing a transition. The id is absent for the
// system actor; the name is snapshotted into history entries because the
// identity record may later change or be removed.
type Actor struct {
	id   *kernel.UUID
	name string
	role Role

	isConstructed bool
}

// NewActor creates an actor for a human identity with the given role.
func NewActor(id kernel.UUID, name string, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if name == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor name")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{
		id:            &id,
		name:          name,
		role:          role,
		isConstructed: true,
	}, nil
}

// NewSystemActor creates the automated actor used for transitions performed
// by the system itself. It has no identifier and is never permission-gated
// as a customer.
func NewSystemActor() Actor {
	return Actor{
		name:          "system",
		role:          RoleAdmin,
		isConstructed: true,
	}
}

// Validate ensures the Actor instance was properly constructed.
func (a Actor) Validate() error {
	if !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}

// ID returns the actor's identifier, or nil for the system actor.
func (a Actor) ID() *kernel.UUID {
	if a.id == nil {
		return nil
	}
	id := *a.id
	return &id
}

// Name returns the display name snapshotted into history entries.
func (a Actor) Name() string {
	return a.name
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// IsCustomer reports whether the actor belongs to the customer class and is
// therefore restricted to the customer-allowed transitions.
func (a Actor) IsCustomer() bool {
	return a.role == RoleCustomer
}

// IsSystem reports whether this is the automated system actor.
func (a Actor) IsSystem() bool {
	return a.id == nil && a.isConstructed
}
