package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/festivalops/offer-api/internal/database"
	"github.com/festivalops/offer-api/internal/http/handler"
	"github.com/festivalops/offer-api/internal/http/middleware"
	"github.com/festivalops/offer-api/internal/http/router"
	"github.com/festivalops/offer-api/internal/jobs"
	"github.com/festivalops/offer-api/internal/logger"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/festivalops/offer-api/internal/repository"
	"github.com/festivalops/offer-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		log.Warn("Running gorm auto-migration, use cmd/migrate outside development")
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	engine := pricing.NewEngine(pricing.Rules{
		TicketingCategory:   cfg.Pricing.TicketingCategory,
		TransactionCategory: cfg.Pricing.TransactionCategory,
		TaxRatePercent:      cfg.Pricing.TaxRatePercent,
	})

	// Repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategorySettingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, catalogRepo, log)
	offerService := service.NewOfferService(offerRepo, numberSequenceRepo, catalogService, engine, cfg.Pricing.OfferNumberPrefix, log)
	reportService := service.NewReportService(offerRepo, catalogService, engine, log)

	// Handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	offerHandler := handler.NewOfferHandler(offerService, log)
	reportHandler := handler.NewReportHandler(reportService, log)

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	rt := router.NewRouter(cfg, log, db, rateLimiter, catalogHandler, offerHandler, reportHandler)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterTotalsRefreshJob(
			scheduler,
			offerService,
			log,
			cfg.Jobs.TotalsRefreshCron,
			cfg.Jobs.TotalsRefreshTimeoutDuration(),
		); err != nil {
			return fmt.Errorf("failed to register totals refresh job: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Scheduled jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("Error closing database connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
