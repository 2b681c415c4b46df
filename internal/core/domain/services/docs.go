// Package services contains domain services: business rules that read the
// domain model but do not belong to a single aggregate. The cancellation
// window policy lives here because it is a customer-facing subset of the
// transition policy, consulted by UI-oriented queries as well as commands.
package services
