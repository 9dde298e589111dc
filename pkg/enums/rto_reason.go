package enums

import "fmt"

// RTOReason explains why a shipment is being routed back to origin.
type RTOReason string

const (
	RTOReasonNDRUnresolved        RTOReason = "ndr_unresolved"
	RTOReasonCustomerCancellation RTOReason = "customer_cancellation"
	RTOReasonAddressIssue         RTOReason = "address_issue"
	RTOReasonRefusedDelivery      RTOReason = "refused_delivery"
)

var validRTOReasons = []RTOReason{
	RTOReasonNDRUnresolved,
	RTOReasonCustomerCancellation,
	RTOReasonAddressIssue,
	RTOReasonRefusedDelivery,
}

// String implements fmt.Stringer.
func (r RTOReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RTOReason.
func (r RTOReason) IsValid() bool {
	for _, candidate := range validRTOReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRTOReason converts raw input into an RTOReason.
func ParseRTOReason(value string) (RTOReason, error) {
	for _, candidate := range validRTOReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rto reason %q", value)
}
