// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farmio-app/farmio/internal/api"
	"github.com/farmio-app/farmio/internal/cache"
	"github.com/farmio-app/farmio/internal/config"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/farmio-app/farmio/internal/repository/memory"
	"github.com/farmio-app/farmio/internal/repository/postgres"
	"github.com/farmio-app/farmio/internal/service"
	"github.com/farmio-app/farmio/internal/storage"
	"github.com/farmio-app/farmio/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.Configure(cfg.Server.Mode, "debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.Configure(cfg.Server.Mode, "info")
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize store
	var (
		meds   repository.MedicationRepository
		orders repository.OrderRepository
		tx     repository.TxManager
		ready  func(context.Context) error
	)
	if cfg.Database.Driver == "memory" {
		store := memory.NewStore()
		meds = store.Medications()
		orders = store.Orders()
		tx = store
		ready = func(context.Context) error { return nil }
		logger.Log.Warn().Msg("running on the in-memory store, data will not survive a restart")
	} else {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		meds = postgres.NewMedicationRepository(db)
		orders = postgres.NewOrderRepository(db)
		tx = db
		ready = db.PingContext
	}

	// Initialize dashboard cache
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to redis")
	}

	// Initialize object storage for exports
	var objectStore storage.ObjectStorage
	if cfg.Export.Enabled {
		objectStore, err = storage.NewS3Client(cfg.Export)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize export storage")
		}
	}

	// Initialize services
	services := &api.Services{
		Inventory:   service.NewInventoryService(meds, orders, dashboardCache, cfg.Inventory.ReorderThresholdDays),
		Medications: service.NewMedicationService(meds, orders, dashboardCache, cfg.Inventory.DoseForms),
		Orders:      service.NewOrderService(meds, orders, tx, dashboardCache),
		Export:      service.NewExportService(meds, objectStore),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Ops listener: liveness and readiness on a separate port
	opsSrv := &http.Server{
		Addr:    ":" + cfg.Server.OpsPort,
		Handler: opsRouter(ready),
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.OpsPort).Msg("Starting ops listener")
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ops listener")
		}
	}()

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := opsSrv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Ops listener forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func opsRouter(ready func(context.Context) error) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return r
}
