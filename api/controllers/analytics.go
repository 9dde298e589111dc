package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/api/middleware"
	"github.com/shipglide/logistics-backend/api/responses"
	"github.com/shipglide/logistics-backend/internal/rto"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
)

// RTOAnalytics reports return volumes, charges, and recommendations for the
// requesting company. Supported query params: from, to (RFC 3339 or
// YYYY-MM-DD), warehouse_id, reason.
func RTOAnalytics(service *rto.AnalyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters, err := parseAnalyticsFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		report, err := service.GetAnalytics(ctx, middleware.CompanyIDFromContext(ctx), filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func parseAnalyticsFilters(r *http.Request) (rto.AnalyticsFilters, error) {
	var filters rto.AnalyticsFilters
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		from, err := parseTimeParam(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid from date").
				WithDetails(map[string]any{"from": raw})
		}
		filters.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := parseTimeParam(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid to date").
				WithDetails(map[string]any{"to": raw})
		}
		filters.To = &to
	}
	if raw := q.Get("warehouse_id"); raw != "" {
		warehouseID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse id").
				WithDetails(map[string]any{"warehouse_id": raw})
		}
		filters.WarehouseID = &warehouseID
	}
	if raw := q.Get("reason"); raw != "" {
		reason, err := enums.ParseRTOReason(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid rto reason").
				WithDetails(map[string]any{"reason": raw})
		}
		filters.Reason = &reason
	}
	return filters, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
