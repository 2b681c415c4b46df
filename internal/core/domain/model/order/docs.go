// Package order provides the domain model for the delivery-order lifecycle.
// It contains the Order aggregate root, the Status state machine with its
// transition policy, the immutable HistoryEntry audit record, and the typed
// errors that classify rejected transitions.
//
// Key business rules:
//   - Status is a closed set of seven states; transitions follow a fixed
//     adjacency table, including reversal edges that move an order backward
//     or reactivate a cancelled one
//   - Every backward or reactivation edge demands a justification text
//     (an "observation") from the actor performing it
//   - Customer actors may only cancel, and only while the order is still
//     pending or accepted
//   - Stage timestamps record when each status was last entered and are
//     never cleared by reversals, preserving the forensic timeline
//   - Completed is terminal: no outgoing edges
//
// The package follows Domain-Driven Design principles: aggregates and value
// objects keep private fields, are created through validating constructors,
// and enforce their invariants in behavior methods.
package order
