package rto

import "github.com/shipglide/logistics-backend/pkg/enums"

// transitionGraph is the fixed directed graph every RTO event walks. There
// are no backward edges; cancellation is only reachable before the package
// leaves with the courier.
var transitionGraph = map[enums.RTOStatus][]enums.RTOStatus{
	enums.RTOStatusInitiated: {
		enums.RTOStatusInTransit,
		enums.RTOStatusCancelled,
	},
	enums.RTOStatusInTransit: {
		enums.RTOStatusDeliveredToWarehouse,
	},
	enums.RTOStatusDeliveredToWarehouse: {
		enums.RTOStatusQCPending,
		enums.RTOStatusQCCompleted,
	},
	enums.RTOStatusQCPending: {
		enums.RTOStatusQCCompleted,
	},
	enums.RTOStatusQCCompleted: {
		enums.RTOStatusRestocked,
		enums.RTOStatusRefurbished,
		enums.RTOStatusDisposed,
		enums.RTOStatusClaimed,
	},
}

// CanTransition reports whether the graph allows moving from one status to
// another.
func CanTransition(from, to enums.RTOStatus) bool {
	for _, next := range transitionGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal next statuses for the given status.
// Terminal statuses return nil.
func NextStatuses(from enums.RTOStatus) []enums.RTOStatus {
	next := transitionGraph[from]
	out := make([]enums.RTOStatus, len(next))
	copy(out, next)
	if len(out) == 0 {
		return nil
	}
	return out
}
