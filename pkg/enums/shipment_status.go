package enums

import "fmt"

// ShipmentStatus tracks the forward and return legs of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusCreated        ShipmentStatus = "created"
	ShipmentStatusPickedUp       ShipmentStatus = "picked_up"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusNDR            ShipmentStatus = "ndr"
	ShipmentStatusRTOInitiated   ShipmentStatus = "rto_initiated"
	ShipmentStatusRTOInTransit   ShipmentStatus = "rto_in_transit"
	ShipmentStatusRTODelivered   ShipmentStatus = "rto_delivered"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusCreated,
	ShipmentStatusPickedUp,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusNDR,
	ShipmentStatusRTOInitiated,
	ShipmentStatusRTOInTransit,
	ShipmentStatusRTODelivered,
}

// rtoWritableShipmentStatuses is the only vocabulary the RTO engine may write
// onto a shipment.
var rtoWritableShipmentStatuses = []ShipmentStatus{
	ShipmentStatusNDR,
	ShipmentStatusRTOInitiated,
	ShipmentStatusRTOInTransit,
	ShipmentStatusRTODelivered,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsRTOWritable reports whether the RTO engine may write this status.
func (s ShipmentStatus) IsRTOWritable() bool {
	for _, candidate := range rtoWritableShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActiveRTO reports whether the shipment is already inside a return leg.
func (s ShipmentStatus) IsActiveRTO() bool {
	return s == ShipmentStatusRTOInitiated || s == ShipmentStatusRTOInTransit
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
