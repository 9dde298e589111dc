package enums

import "fmt"

// RTOTriggerType records whether an RTO was raised by automation or an operator.
type RTOTriggerType string

const (
	RTOTriggerAuto   RTOTriggerType = "auto"
	RTOTriggerManual RTOTriggerType = "manual"
)

var validRTOTriggerTypes = []RTOTriggerType{
	RTOTriggerAuto,
	RTOTriggerManual,
}

// String implements fmt.Stringer.
func (t RTOTriggerType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known RTOTriggerType.
func (t RTOTriggerType) IsValid() bool {
	for _, candidate := range validRTOTriggerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseRTOTriggerType converts raw input into an RTOTriggerType.
func ParseRTOTriggerType(value string) (RTOTriggerType, error) {
	for _, candidate := range validRTOTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rto trigger type %q", value)
}
