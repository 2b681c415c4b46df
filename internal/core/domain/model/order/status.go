package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It is a closed set: every order is in exactly one of the seven states
// below, and movement between them is governed by the transition policy
// (see policy.go).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Accepted indicates the business has taken the order.
	Accepted

	// Preparing indicates the kitchen has started on the order.
	Preparing

	// Ready indicates the order is packed and awaiting pickup.
	Ready

	// OutForDelivery indicates a courier is carrying the order.
	OutForDelivery

	// Completed indicates the order has been delivered.
	// This is the only terminal state; it has no outgoing edges.
	Completed

	// Cancelled indicates the order was called off. Cancelled orders can
	// be reactivated back to Pending or Accepted.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire names.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Accepted:       "accepted",
		Preparing:      "preparing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Completed:      "completed",
		Cancelled:      "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Accepted:       "accepted",
		Preparing:      "preparing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Completed:      "completed",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses a wire name ("pending", "out_for_delivery", ...)
// into a Status. Returns an error for unrecognized names, eliminating loose
// status strings at the boundary.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the seven valid states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown" for invalid
// values. Implements fmt.Stringer; safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
