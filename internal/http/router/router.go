package router

import (
	"encoding/json"
	"net/http"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/festivalops/offer-api/internal/database"
	"github.com/festivalops/offer-api/internal/http/handler"
	"github.com/festivalops/offer-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	rateLimiter    *middleware.RateLimiter
	catalogHandler *handler.CatalogHandler
	offerHandler   *handler.OfferHandler
	reportHandler  *handler.ReportHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	catalogHandler *handler.CatalogHandler,
	offerHandler *handler.OfferHandler,
	reportHandler *handler.ReportHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		rateLimiter:    rateLimiter,
		catalogHandler: catalogHandler,
		offerHandler:   offerHandler,
		reportHandler:  reportHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security, rt.cfg.App.Environment))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness with connection pool stats
	r.Get("/health/db", rt.databaseHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.ListProducts)
			r.Post("/", rt.catalogHandler.CreateProduct)
			r.Get("/{id}", rt.catalogHandler.GetProduct)
			r.Put("/{id}", rt.catalogHandler.UpdateProduct)
			r.Delete("/{id}", rt.catalogHandler.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.ListCategories)
			r.Put("/{category}", rt.catalogHandler.UpsertCategory)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", rt.offerHandler.List)
			r.Post("/", rt.offerHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.offerHandler.GetByID)
				r.Delete("/", rt.offerHandler.Delete)
				r.Patch("/cockpit", rt.offerHandler.UpdateCockpit)
				r.Post("/recalculate", rt.offerHandler.Recalculate)
				r.Patch("/lines/{productId}", rt.offerHandler.UpdateLine)
				r.Put("/forecasts/{productId}", rt.offerHandler.SetForecast)
				r.Put("/discount", rt.offerHandler.UpdateDiscount)
				r.Put("/realization", rt.offerHandler.UpdateRealization)
				r.Get("/profit", rt.reportHandler.OfferProfit)
			})
		})

		r.Get("/reports/profit", rt.reportHandler.ProfitSummary)
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}
