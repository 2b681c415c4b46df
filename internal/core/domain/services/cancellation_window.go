package services

import (
	"orderflow/internal/core/domain/model/order"
)

// CancellationWindowPolicy decides whether a customer may still cancel an
// order. The window is gated purely by status: once the kitchen starts
// preparing, customers must call the business instead. There is
// deliberately no elapsed-time component.
type CancellationWindowPolicy struct{}

// NewCancellationWindowPolicy creates the customer-cancellation policy.
func NewCancellationWindowPolicy() CancellationWindowPolicy {
	return CancellationWindowPolicy{}
}

// CanCustomerCancel reports whether the order is still inside the customer
// cancellation window, i.e. pending or accepted.
func (CancellationWindowPolicy) CanCustomerCancel(o *order.Order) bool {
	if err := o.Validate(); err != nil {
		return false
	}

	return o.Status().IsCustomerAllowed(order.Cancelled)
}

// ReasonIfBlocked returns a human-readable explanation for why a customer
// cannot cancel an order in the given status. Returns the empty string when
// cancellation is still possible.
func (CancellationWindowPolicy) ReasonIfBlocked(status order.Status) string {
	if status.IsCustomerAllowed(order.Cancelled) {
		return ""
	}

	switch status {
	case order.Preparing:
		return "the order is already in preparation"
	case order.Ready:
		return "the order is already prepared and awaiting pickup"
	case order.OutForDelivery:
		return "the order is already out for delivery"
	case order.Completed:
		return "the order has already been delivered"
	case order.Cancelled:
		return "the order is already cancelled"
	case order.Pending, order.Accepted, order.Unknown:
		return "the order cannot be cancelled"
	}
	return "the order cannot be cancelled"
}
