package controllers

import (
	"net/http"
	"strings"

	"github.com/shipglide/logistics-backend/api/middleware"
	"github.com/shipglide/logistics-backend/api/responses"
	"github.com/shipglide/logistics-backend/api/validators"
	"github.com/shipglide/logistics-backend/internal/rto"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/pagination"
)

type rtoListResponse struct {
	Events     []rtoEventResponse `json:"events"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// ListRTOs pages through the company's returns. Query params: status, reason,
// limit, cursor.
func ListRTOs(service *rto.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		var filters rto.ListFilters
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseRTOStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid rto status").
						WithDetails(map[string]any{"status": raw}))
				return
			}
			filters.Status = &status
		}
		if raw := r.URL.Query().Get("reason"); raw != "" {
			reason, err := enums.ParseRTOReason(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid rto reason").
						WithDetails(map[string]any{"reason": raw}))
				return
			}
			filters.Reason = &reason
		}

		events, next, err := service.ListRTOEvents(ctx, middleware.CompanyIDFromContext(ctx), params, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := rtoListResponse{Events: make([]rtoEventResponse, 0, len(events))}
		for i := range events {
			out.Events = append(out.Events, toRTOEventResponse(&events[i]))
		}
		if next != nil {
			out.NextCursor = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, out)
	}
}
