package couriers

import (
	"context"
	"time"
)

// ReverseShipmentRequest asks a carrier to pick a package back up.
type ReverseShipmentRequest struct {
	OrderNumber     string
	ForwardAWB      string
	PickupPincode   string
	DeliveryPincode string
	WeightKG        string
	Reason          string
}

// ReverseShipmentResult is the carrier's acknowledgement of a reverse leg.
type ReverseShipmentResult struct {
	ReverseAWB string
	Courier    string
	Label      string
	ExtraData  map[string]any
}

// TrackingEvent is one scan in a shipment's history.
type TrackingEvent struct {
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
	Remarks    string    `json:"remarks,omitempty"`
}

// TrackingResult is the normalized tracking snapshot returned to callers.
type TrackingResult struct {
	Status            string          `json:"status"`
	CurrentLocation   string          `json:"current_location"`
	TrackingHistory   []TrackingEvent `json:"tracking_history"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
}

// PickupSlot is a requested pickup window.
type PickupSlot struct {
	Date time.Time
	Slot string
}

// Adapter is the capability set every carrier integration must provide.
type Adapter interface {
	Name() string
	CreateReverseShipment(ctx context.Context, req ReverseShipmentRequest) (ReverseShipmentResult, error)
	TrackShipment(ctx context.Context, awb string) (TrackingResult, error)
	CancelReverseShipment(ctx context.Context, awb string, reason string) error
}

// PickupScheduler is the optional pickup-scheduling capability. Adapters that
// support it return themselves from their capability accessor; callers must
// treat absence as "not supported", never as an error.
type PickupScheduler interface {
	SchedulePickup(ctx context.Context, awb string, slot PickupSlot) error
}

// SchedulerFor probes an adapter for the optional pickup capability.
func SchedulerFor(adapter Adapter) (PickupScheduler, bool) {
	scheduler, ok := adapter.(PickupScheduler)
	return scheduler, ok
}
