package enums

import "fmt"

// RTOStatus tracks the lifecycle of a return-to-origin event.
type RTOStatus string

const (
	RTOStatusInitiated            RTOStatus = "initiated"
	RTOStatusInTransit            RTOStatus = "in_transit"
	RTOStatusDeliveredToWarehouse RTOStatus = "delivered_to_warehouse"
	RTOStatusQCPending            RTOStatus = "qc_pending"
	RTOStatusQCCompleted          RTOStatus = "qc_completed"
	RTOStatusRestocked            RTOStatus = "restocked"
	RTOStatusRefurbished          RTOStatus = "refurbished"
	RTOStatusDisposed             RTOStatus = "disposed"
	RTOStatusClaimed              RTOStatus = "claimed"
	RTOStatusCancelled            RTOStatus = "cancelled"
)

var validRTOStatuses = []RTOStatus{
	RTOStatusInitiated,
	RTOStatusInTransit,
	RTOStatusDeliveredToWarehouse,
	RTOStatusQCPending,
	RTOStatusQCCompleted,
	RTOStatusRestocked,
	RTOStatusRefurbished,
	RTOStatusDisposed,
	RTOStatusClaimed,
	RTOStatusCancelled,
}

// ValidRTOStatuses returns every known RTOStatus in lifecycle order.
func ValidRTOStatuses() []RTOStatus {
	out := make([]RTOStatus, len(validRTOStatuses))
	copy(out, validRTOStatuses)
	return out
}

// String implements fmt.Stringer.
func (r RTOStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RTOStatus.
func (r RTOStatus) IsValid() bool {
	for _, candidate := range validRTOStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status closes the RTO audit trail.
func (r RTOStatus) IsTerminal() bool {
	switch r {
	case RTOStatusRestocked, RTOStatusRefurbished, RTOStatusDisposed, RTOStatusClaimed, RTOStatusCancelled:
		return true
	}
	return false
}

// IsPreTransit reports whether the package has not yet left with the courier.
// Cancellation is only allowed from these states.
func (r RTOStatus) IsPreTransit() bool {
	return r == RTOStatusInitiated
}

// ParseRTOStatus converts raw input into an RTOStatus.
func ParseRTOStatus(value string) (RTOStatus, error) {
	for _, candidate := range validRTOStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rto status %q", value)
}
