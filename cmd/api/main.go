package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shipglide/logistics-backend/api/routes"
	"github.com/shipglide/logistics-backend/internal/audit"
	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/internal/inventory"
	"github.com/shipglide/logistics-backend/internal/ndr"
	"github.com/shipglide/logistics-backend/internal/notifications"
	"github.com/shipglide/logistics-backend/internal/orders"
	"github.com/shipglide/logistics-backend/internal/ratecard"
	"github.com/shipglide/logistics-backend/internal/ratelimit"
	"github.com/shipglide/logistics-backend/internal/rto"
	"github.com/shipglide/logistics-backend/internal/shipments"
	"github.com/shipglide/logistics-backend/internal/wallet"
	"github.com/shipglide/logistics-backend/pkg/config"
	"github.com/shipglide/logistics-backend/pkg/db"
	"github.com/shipglide/logistics-backend/pkg/logger"
	"github.com/shipglide/logistics-backend/pkg/metrics"
	"github.com/shipglide/logistics-backend/pkg/migrate"
	"github.com/shipglide/logistics-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	factory, err := buildCourierFactory(cfg.Couriers)
	if err != nil {
		logg.Error(context.Background(), "failed to build courier adapters", err)
		os.Exit(1)
	}

	limiter, err := ratelimit.NewFixedWindowLimiter(redisClient, "rto-trigger", cfg.RTO.TriggerLimit, cfg.RTO.TriggerWindow)
	if err != nil {
		logg.Error(context.Background(), "failed to build rate limiter", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	rtoMetrics := metrics.NewRTOMetrics(prometheus.DefaultRegisterer)
	events := rto.NewRepository(gormDB)
	dispatcher := notifications.NewDispatcher(gormDB, logg)
	recorder := audit.NewRecorder(gormDB)

	coordinator := rto.NewCoordinator(rto.CoordinatorDeps{
		Tx:        dbClient,
		Events:    events,
		Shipments: shipments.NewRepository(gormDB),
		NDR:       ndr.NewRepository(gormDB),
		Wallet:    wallet.NewGateway(gormDB),
		Charges:   ratecard.NewCalculator(gormDB),
		Couriers:  factory,
		Limiter:   limiter,
		Notifier:  dispatcher,
		Audit:     recorder,
		Metrics:   rtoMetrics,
		Logger:    logg,
	})

	restock := rto.NewRestockExecutor(rto.RestockDeps{
		Tx:        dbClient,
		Events:    events,
		Orders:    orders.NewRepository(gormDB),
		Inventory: inventory.NewAdjuster(gormDB),
		Audit:     recorder,
		Metrics:   rtoMetrics,
		Logger:    logg,
	})

	rtoService := rto.NewService(rto.ServiceDeps{
		Tx:        dbClient,
		Events:    events,
		Shipments: shipments.NewRepository(gormDB),
		Couriers:  factory,
		Restock:   restock,
		Notifier:  dispatcher,
		Audit:     recorder,
		Metrics:   rtoMetrics,
		Logger:    logg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Logger:      logg,
			DB:          gormDB,
			Redis:       redisClient,
			Coordinator: coordinator,
			RTOService:  rtoService,
			Analytics:   rto.NewAnalyticsService(gormDB),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildCourierFactory(cfg config.CourierConfig) (*couriers.Factory, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	adapters := make([]couriers.Adapter, 0, len(cfg.Carriers))
	for _, carrier := range cfg.Carriers {
		adapter, err := couriers.NewRESTAdapter(couriers.RESTOptions{
			Carrier:          carrier,
			BaseURL:          cfg.GatewayURL,
			APIKey:           cfg.APIKey,
			HTTPClient:       client,
			PickupScheduling: slices.Contains(cfg.PickupCapable, couriers.Canonical(carrier)),
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	return couriers.NewFactory(adapters...), nil
}
