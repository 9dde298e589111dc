package enums

import "fmt"

// NDRStatus tracks what happened to a non-delivery report.
type NDRStatus string

const (
	NDRStatusOpen         NDRStatus = "open"
	NDRStatusReattempt    NDRStatus = "reattempt_scheduled"
	NDRStatusResolved     NDRStatus = "resolved"
	NDRStatusRTOTriggered NDRStatus = "rto_triggered"
)

var validNDRStatuses = []NDRStatus{
	NDRStatusOpen,
	NDRStatusReattempt,
	NDRStatusResolved,
	NDRStatusRTOTriggered,
}

// String implements fmt.Stringer.
func (n NDRStatus) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NDRStatus.
func (n NDRStatus) IsValid() bool {
	for _, candidate := range validNDRStatuses {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNDRStatus converts raw input into an NDRStatus.
func ParseNDRStatus(value string) (NDRStatus, error) {
	for _, candidate := range validNDRStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ndr status %q", value)
}
