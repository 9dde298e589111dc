package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/shipglide/logistics-backend/api/responses"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
	"github.com/shipglide/logistics-backend/pkg/logger"
)

const (
	companyIDHeader = "X-Company-Id"
	actorHeader     = "X-Actor-Id"
)

type contextKey string

const (
	ctxCompanyID contextKey = "company_id"
	ctxActor     contextKey = "actor"
)

// CompanyContext requires a company identifier on every request and stashes
// it, together with the acting user, into the request context. Identity comes
// from the API gateway upstream; this service only scopes by it.
func CompanyContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(companyIDHeader)
			companyID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "missing or invalid company id header").
						WithDetails(map[string]any{"header": companyIDHeader}))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCompanyID, companyID)
			actor := r.Header.Get(actorHeader)
			if actor == "" {
				actor = "api"
			}
			ctx = context.WithValue(ctx, ctxActor, actor)
			if logg != nil {
				ctx = logg.WithCompanyID(ctx, companyID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CompanyIDFromContext returns the scoped company id, or uuid.Nil.
func CompanyIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCompanyID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// ActorFromContext returns the acting user identifier, or "api".
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return "api"
	}
	if v, ok := ctx.Value(ctxActor).(string); ok && v != "" {
		return v
	}
	return "api"
}
