package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/api/middleware"
	"github.com/shipglide/logistics-backend/api/responses"
	"github.com/shipglide/logistics-backend/api/validators"
	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/internal/rto"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
)

type triggerRTORequest struct {
	ShipmentID  uuid.UUID  `json:"shipment_id" validate:"required"`
	Reason      string     `json:"reason" validate:"required"`
	TriggerType string     `json:"trigger_type" validate:"omitempty,oneof=auto manual"`
	NDREventID  *uuid.UUID `json:"ndr_event_id,omitempty"`
	Remarks     *string    `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// TriggerRTO opens a return for a shipment.
func TriggerRTO(coordinator *rto.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body triggerRTORequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reason, err := enums.ParseRTOReason(body.Reason)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid rto reason").
					WithDetails(map[string]any{"reason": body.Reason}))
			return
		}
		triggerType := enums.RTOTriggerManual
		if body.TriggerType == string(enums.RTOTriggerAuto) {
			triggerType = enums.RTOTriggerAuto
		}

		event, err := coordinator.TriggerRTO(ctx, rto.TriggerInput{
			ShipmentID:  body.ShipmentID,
			Reason:      reason,
			TriggerType: triggerType,
			NDREventID:  body.NDREventID,
			Actor:       middleware.ActorFromContext(ctx),
			Remarks:     body.Remarks,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toRTOEventResponse(event))
	}
}

// GetRTO returns one RTO event with its transition history.
func GetRTO(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseRTOID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		event, err := service.GetRTOEvent(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRTOEventResponse(event))
	}
}

type updateRTOStatusRequest struct {
	Status  string  `json:"status" validate:"required"`
	Remarks *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// UpdateRTOStatus advances an RTO along its lifecycle.
func UpdateRTOStatus(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseRTOID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body updateRTOStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseRTOStatus(body.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid rto status").
					WithDetails(map[string]any{"status": body.Status}))
			return
		}

		event, err := service.UpdateStatus(ctx, id, status, rto.TransitionContext{
			Actor:   middleware.ActorFromContext(ctx),
			Remarks: body.Remarks,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRTOEventResponse(event))
	}
}

type qcResultRequest struct {
	Passed      *bool   `json:"passed" validate:"required"`
	Remarks     *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	InspectedBy string  `json:"inspected_by" validate:"required,max=200"`
}

// RecordQC stores a warehouse inspection result.
func RecordQC(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseRTOID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body qcResultRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := service.RecordQCResult(ctx, id, rto.QCInput{
			Passed:      *body.Passed,
			Remarks:     body.Remarks,
			InspectedBy: validators.SanitizeString(body.InspectedBy, 200),
			Actor:       middleware.ActorFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRTOEventResponse(event))
	}
}

type cancelRTORequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// CancelRTO cancels a return before courier pickup.
func CancelRTO(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseRTOID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body cancelRTORequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := service.CancelReverseShipment(ctx, id, validators.SanitizeString(body.Reason, 500), rto.TransitionContext{
			Actor: middleware.ActorFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRTOEventResponse(event))
	}
}

// TrackRTO proxies live tracking for a reverse AWB.
func TrackRTO(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reverseAWB := chi.URLParam(r, "reverseAwb")
		if reverseAWB == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "reverse awb required"))
			return
		}
		result, err := service.TrackReverseShipment(ctx, reverseAWB)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type schedulePickupRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot string `json:"slot" validate:"required,max=50"`
}

// SchedulePickup requests a reverse pickup slot from the carrier.
func SchedulePickup(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseRTOID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body schedulePickupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid pickup date").
					WithDetails(map[string]any{"date": body.Date}))
			return
		}

		result, err := service.ScheduleReversePickup(ctx, id, couriers.PickupSlot{Date: date, Slot: body.Slot})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseRTOID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "rtoId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rto id").
			WithDetails(map[string]any{"rto_id": raw})
	}
	return id, nil
}
