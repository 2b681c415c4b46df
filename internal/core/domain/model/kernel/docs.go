// Package kernel contains shared value objects used across the domain model.
// It currently provides the UUID identifier type used by orders, history
// entries, actors and tenants.
//
// Value objects in this package are immutable and validated at construction.
// The zero value of each type is invalid and rejected by Validate, which
// keeps improperly initialized identifiers from leaking into aggregates or
// persistence.
package kernel
