package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/api/controllers"
	"github.com/shipglide/logistics-backend/api/middleware"
	"github.com/shipglide/logistics-backend/internal/rto"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/redis"
)

// RouterParams carries every dependency the HTTP surface needs.
type RouterParams struct {
	Logger      *logger.Logger
	DB          *gorm.DB
	Redis       *redis.Client
	Coordinator *rto.Coordinator
	RTOService  *rto.Service
	Analytics   *rto.AnalyticsService
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(p.DB, p.Redis, p.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CompanyContext(p.Logger))

		r.Route("/rto", func(r chi.Router) {
			r.Get("/", controllers.ListRTOs(p.RTOService, p.Logger))
			r.Post("/trigger", controllers.TriggerRTO(p.Coordinator, p.Logger))
			r.Get("/track/{reverseAwb}", controllers.TrackRTO(p.RTOService, p.Logger))
			r.Route("/{rtoId}", func(r chi.Router) {
				r.Get("/", controllers.GetRTO(p.RTOService, p.Logger))
				r.Patch("/status", controllers.UpdateRTOStatus(p.RTOService, p.Logger))
				r.Post("/qc", controllers.RecordQC(p.RTOService, p.Logger))
				r.Post("/cancel", controllers.CancelRTO(p.RTOService, p.Logger))
				r.Post("/pickup", controllers.SchedulePickup(p.RTOService, p.Logger))
			})
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/rto", controllers.RTOAnalytics(p.Analytics, p.Logger))
		})
	})

	return r
}
