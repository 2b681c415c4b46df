package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is the sentinel error for edges absent from the
	// transition table.
	ErrInvalidTransition = errors.New("transition is not allowed")

	// ErrObservationRequired is returned when a reversal edge is attempted
	// without a justification text. Callers can match it with errors.Is to
	// prompt specifically for the missing observation.
	ErrObservationRequired = errors.New("observation is required for this transition")

	// ErrCustomerForbidden is the sentinel error for transitions a
	// customer-class actor may not invoke.
	ErrCustomerForbidden = errors.New("customers may not perform this transition")
)

// InvalidTransitionError reports a requested edge that is not in the
// transition table. It carries both statuses so callers can render an
// accurate message.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the edge from->to.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// CustomerForbiddenError reports a transition that exists in the table but
// is outside the customer-allowed subset. It carries both statuses so
// callers can render an accurate message.
type CustomerForbiddenError struct {
	From Status
	To   Status
}

// NewCustomerForbiddenError creates a CustomerForbiddenError for the edge from->to.
func NewCustomerForbiddenError(from, to Status) *CustomerForbiddenError {
	return &CustomerForbiddenError{From: from, To: to}
}

func (e *CustomerForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrCustomerForbidden, e.From, e.To)
}

func (e *CustomerForbiddenError) Unwrap() error {
	return ErrCustomerForbidden
}
