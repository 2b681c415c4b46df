package order

// The transition policy is a fixed adjacency table over Status. It is pure
// data plus lookup methods: no side effects, safe for concurrent use.
//
//	pending          -> accepted, cancelled
//	accepted         -> pending, preparing, cancelled
//	preparing        -> accepted, ready, cancelled
//	ready            -> preparing, out_for_delivery, cancelled
//	out_for_delivery -> ready, completed, cancelled
//	completed        -> (terminal)
//	cancelled        -> pending, accepted (reactivation)

// transitionTargets lists, per state, the states it may move to, in the
// order they are reported by AllowedTargets.
var transitionTargets = map[Status][]Status{
	Pending:        {Accepted, Cancelled},
	Accepted:       {Pending, Preparing, Cancelled},
	Preparing:      {Accepted, Ready, Cancelled},
	Ready:          {Preparing, OutForDelivery, Cancelled},
	OutForDelivery: {Ready, Completed, Cancelled},
	Completed:      {},
	Cancelled:      {Pending, Accepted},
}

// reversalEdges marks every edge that moves an order backward in its
// lifecycle or reactivates a cancelled one. These edges require an
// observation and never write stage timestamps.
var reversalEdges = map[Status]map[Status]bool{
	Accepted:       {Pending: true},
	Preparing:      {Accepted: true},
	Ready:          {Preparing: true},
	OutForDelivery: {Ready: true},
	Cancelled:      {Pending: true, Accepted: true},
}

// customerEdges marks the only edges a customer-class actor may invoke.
var customerEdges = map[Status]map[Status]bool{
	Pending:  {Cancelled: true},
	Accepted: {Cancelled: true},
}

// CanTransitionTo reports whether the adjacency table contains the edge
// from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitionTargets[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTargets returns the closed set of states s may transition to.
// The returned slice is a copy; callers may modify it freely.
func (s Status) AllowedTargets() []Status {
	targets := transitionTargets[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// IsReversal reports whether the edge from s to target moves the order
// backward or reactivates it.
func (s Status) IsReversal(target Status) bool {
	return reversalEdges[s][target]
}

// RequiresObservation reports whether the edge from s to target demands a
// non-blank justification text. This is true exactly for the reversal
// edges: an order never moves backward without a recorded reason.
func (s Status) RequiresObservation(target Status) bool {
	return s.IsReversal(target)
}

// IsCustomerAllowed reports whether a customer-class actor may invoke the
// edge from s to target. Customers may only cancel, and only before the
// order enters preparation.
func (s Status) IsCustomerAllowed(target Status) bool {
	return customerEdges[s][target]
}

// IsTerminal reports whether s has no outgoing edges.
func (s Status) IsTerminal() bool {
	return len(transitionTargets[s]) == 0 && s.Validate() == nil
}
