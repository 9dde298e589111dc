package couriers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
)

func newGatewayAdapter(t *testing.T, handler http.Handler, pickup bool) Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	adapter, err := NewRESTAdapter(RESTOptions{
		Carrier:          "Delhivery",
		BaseURL:          server.URL,
		APIKey:           "test-key",
		HTTPClient:       server.Client(),
		PickupScheduling: pickup,
	})
	if err != nil {
		t.Fatalf("NewRESTAdapter: %v", err)
	}
	return adapter
}

func TestRESTAdapterCreateReverseShipment(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"reverse_awb": "RV123",
			"label_url":   "https://labels.example/RV123.pdf",
		})
	})
	adapter := newGatewayAdapter(t, handler, false)

	result, err := adapter.CreateReverseShipment(context.Background(), ReverseShipmentRequest{
		OrderNumber:     "SO-1001",
		ForwardAWB:      "AWB1",
		PickupPincode:   "110001",
		DeliveryPincode: "560001",
		WeightKG:        "0.5",
		Reason:          "refused_delivery",
	})
	if err != nil {
		t.Fatalf("CreateReverseShipment: %v", err)
	}
	if result.ReverseAWB != "RV123" {
		t.Fatalf("reverse awb = %q, want RV123", result.ReverseAWB)
	}
	if result.Courier != "delhivery" {
		t.Fatalf("courier = %q, want delhivery", result.Courier)
	}
	if gotPath != "/carriers/delhivery/reverse-shipments" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody["forward_awb"] != "AWB1" {
		t.Fatalf("forward_awb = %v", gotBody["forward_awb"])
	}
}

func TestRESTAdapterGatewayErrorIsDependency(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "carrier timeout"})
	})
	adapter := newGatewayAdapter(t, handler, false)

	_, err := adapter.CreateReverseShipment(context.Background(), ReverseShipmentRequest{ForwardAWB: "AWB1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("code = %v, want DEPENDENCY", pkgerrors.As(err).Code())
	}
	if pkgerrors.As(err).Message() != "carrier timeout" {
		t.Fatalf("message = %q", pkgerrors.As(err).Message())
	}
}

func TestRESTAdapterMissingReverseAWB(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	})
	adapter := newGatewayAdapter(t, handler, false)

	_, err := adapter.CreateReverseShipment(context.Background(), ReverseShipmentRequest{ForwardAWB: "AWB1"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY, got %v", err)
	}
}

func TestRESTAdapterTrackShipment(t *testing.T) {
	occurred := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/carriers/delhivery/shipments/RV123/track" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(TrackingResult{
			Status:          "in_transit",
			CurrentLocation: "Bhiwandi Hub",
			TrackingHistory: []TrackingEvent{{Status: "picked_up", Location: "Bangalore", OccurredAt: occurred}},
		})
	})
	adapter := newGatewayAdapter(t, handler, false)

	result, err := adapter.TrackShipment(context.Background(), "RV123")
	if err != nil {
		t.Fatalf("TrackShipment: %v", err)
	}
	if result.Status != "in_transit" || len(result.TrackingHistory) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRESTAdapterPickupCapability(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/carriers/delhivery/shipments/RV123/pickup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	plain := newGatewayAdapter(t, handler, false)
	if _, ok := SchedulerFor(plain); ok {
		t.Fatal("plain adapter should not expose pickup scheduling")
	}

	capable := newGatewayAdapter(t, handler, true)
	scheduler, ok := SchedulerFor(capable)
	if !ok {
		t.Fatal("pickup-capable adapter should expose scheduling")
	}
	slot := PickupSlot{Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Slot: "10:00-13:00"}
	if err := scheduler.SchedulePickup(context.Background(), "RV123", slot); err != nil {
		t.Fatalf("SchedulePickup: %v", err)
	}
	if gotBody["date"] != "2026-02-01" || gotBody["slot"] != "10:00-13:00" {
		t.Fatalf("pickup payload = %v", gotBody)
	}
}
