package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentscope/internal/config"
	"github.com/stwalsh4118/rentscope/internal/database"
	"github.com/stwalsh4118/rentscope/internal/dataset"
	"github.com/stwalsh4118/rentscope/internal/handlers"
	"github.com/stwalsh4118/rentscope/internal/logger"
	"github.com/stwalsh4118/rentscope/internal/middleware"
	"github.com/stwalsh4118/rentscope/internal/repository"
	"github.com/stwalsh4118/rentscope/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	loadTimeout     = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting rentscope", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"source":      cfg.Data.Source,
	})

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	// A nil Pinger keeps readiness independent of any database.
	var pinger handlers.Pinger
	var src dataset.Source
	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Name,
			"pool_max": cfg.Database.PoolMax,
		})
		pinger = db
		src = repository.NewListingRepository(db.Pool)
	default:
		src = dataset.NewCSVSource(cfg.Data.File)
	}

	data, err := services.LoadDataset(ctx, src, log)
	if err != nil {
		log.Fatal("Failed to load dataset", err, map[string]interface{}{
			"source": cfg.Data.Source,
			"file":   cfg.Data.File,
		})
	}

	dashboardService := services.NewDashboardService(data, cfg.Data.SampleRows, log)
	if err := dashboardService.CheckColumns(); err != nil {
		// Still served: the page shows the summary followed by this message.
		log.Warn("Dataset is missing a required column", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(pinger, cfg.Server.Env, cfg.Data.Source, data.Table.Len())
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	router.GET("/", dashboardHandler.Index)
	router.GET("/charts/:name", dashboardHandler.Chart)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)
		v1.GET("/summary", dashboardHandler.Summary)
		v1.GET("/charts", dashboardHandler.Charts)
		v1.GET("/filters", dashboardHandler.Filters)
		v1.GET("/listings", dashboardHandler.Listings)
		v1.GET("/listings.geojson", dashboardHandler.GeoJSON)
		v1.GET("/map", dashboardHandler.Map)
		v1.GET("/dashboard", dashboardHandler.Dashboard)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
