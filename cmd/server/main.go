// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formulab/backend-go/internal/api"
	"github.com/formulab/backend-go/internal/api/handlers"
	"github.com/formulab/backend-go/internal/cache"
	"github.com/formulab/backend-go/internal/config"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/manufacturing"
	"github.com/formulab/backend-go/internal/repository/postgres"
	"github.com/formulab/backend-go/internal/service"
	"github.com/formulab/backend-go/internal/units"
	"github.com/formulab/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize calculation cache
	calcCache, err := cache.NewCalculationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("calculation cache unavailable, continuing without caching")
		calcCache = cache.NewNoopCalculationCache()
	}

	// Initialize engine and services
	converter := units.NewConverter()
	eng := engine.New(converter, engine.Config{
		PercentTolerance: cfg.Engine.PercentTolerance,
		IdealYield:       cfg.Engine.IdealYield,
	})
	estimator := manufacturing.NewEstimator(nil)
	repo := postgres.NewFormulationRepository(db)

	services := &api.Services{
		CalculationService: service.NewCalculationService(eng, converter, estimator, repo, calcCache),
		FormulationService: service.NewFormulationService(repo),
		Manufacturing:      handlers.NewManufacturingHandler(estimator),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
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

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
