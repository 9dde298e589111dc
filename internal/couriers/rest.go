package couriers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
)

// RESTOptions configures one carrier connection on the courier gateway.
type RESTOptions struct {
	Carrier    string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// PickupScheduling marks carriers whose gateway integration exposes the
	// reverse-pickup slot endpoint.
	PickupScheduling bool
}

// RESTAdapter talks to the internal courier gateway, which owns the
// carrier-specific wire protocols. One adapter instance serves one carrier.
type RESTAdapter struct {
	carrier string
	baseURL string
	apiKey  string
	client  *http.Client
}

// restPickupAdapter is a RESTAdapter whose carrier also accepts pickup slots.
type restPickupAdapter struct {
	*RESTAdapter
}

// NewRESTAdapter builds a gateway-backed adapter for one carrier.
func NewRESTAdapter(opts RESTOptions) (Adapter, error) {
	if opts.Carrier == "" {
		return nil, fmt.Errorf("carrier required")
	}
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	adapter := &RESTAdapter{
		carrier: Canonical(opts.Carrier),
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		client:  client,
	}
	if opts.PickupScheduling {
		return &restPickupAdapter{RESTAdapter: adapter}, nil
	}
	return adapter, nil
}

func (a *RESTAdapter) Name() string { return a.carrier }

func (a *RESTAdapter) CreateReverseShipment(ctx context.Context, req ReverseShipmentRequest) (ReverseShipmentResult, error) {
	payload := map[string]any{
		"order_number":     req.OrderNumber,
		"forward_awb":      req.ForwardAWB,
		"pickup_pincode":   req.PickupPincode,
		"delivery_pincode": req.DeliveryPincode,
		"weight_kg":        req.WeightKG,
		"reason":           req.Reason,
	}
	var out struct {
		ReverseAWB string         `json:"reverse_awb"`
		Label      string         `json:"label_url"`
		ExtraData  map[string]any `json:"extra_data"`
	}
	path := fmt.Sprintf("/carriers/%s/reverse-shipments", a.carrier)
	if err := a.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return ReverseShipmentResult{}, err
	}
	if out.ReverseAWB == "" {
		return ReverseShipmentResult{}, pkgerrors.New(pkgerrors.CodeDependency,
			"courier gateway returned no reverse awb")
	}
	return ReverseShipmentResult{
		ReverseAWB: out.ReverseAWB,
		Courier:    a.carrier,
		Label:      out.Label,
		ExtraData:  out.ExtraData,
	}, nil
}

func (a *RESTAdapter) TrackShipment(ctx context.Context, awb string) (TrackingResult, error) {
	var out TrackingResult
	path := fmt.Sprintf("/carriers/%s/shipments/%s/track", a.carrier, awb)
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return TrackingResult{}, err
	}
	return out, nil
}

func (a *RESTAdapter) CancelReverseShipment(ctx context.Context, awb string, reason string) error {
	path := fmt.Sprintf("/carriers/%s/shipments/%s/cancel", a.carrier, awb)
	return a.do(ctx, http.MethodPost, path, map[string]any{"reason": reason}, nil)
}

func (a *restPickupAdapter) SchedulePickup(ctx context.Context, awb string, slot PickupSlot) error {
	path := fmt.Sprintf("/carriers/%s/shipments/%s/pickup", a.carrier, awb)
	payload := map[string]any{
		"date": slot.Date.Format("2006-01-02"),
		"slot": slot.Slot,
	}
	return a.do(ctx, http.MethodPost, path, payload, nil)
}

func (a *RESTAdapter) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding courier request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building courier request")
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("courier gateway unreachable for %s", a.carrier))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		var gwErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&gwErr)
		msg := gwErr.Message
		if msg == "" {
			msg = fmt.Sprintf("courier gateway returned %d for %s", resp.StatusCode, a.carrier)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, msg).
			WithDetails(map[string]any{"carrier": a.carrier, "status": resp.StatusCode})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding courier response")
		}
	}
	return nil
}
