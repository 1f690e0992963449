package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayRank/app/echo-server/router"
	"stayRank/business/curation"
	"stayRank/business/inference"
	"stayRank/business/model"
	"stayRank/business/registry"
	"stayRank/business/training"
	"stayRank/internal/middleware"
	psqlRepo "stayRank/internal/repository/postgres"
	redisRepo "stayRank/internal/repository/redis"
	"stayRank/internal/rest"
	"stayRank/internal/tasks"
	"stayRank/pkg/config"
	"stayRank/pkg/database"
	redisdb "stayRank/pkg/database/redis"
	"stayRank/pkg/logger"
	"stayRank/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting StayRank API", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	if err := database.Seed(context.Background(), db, cfg); err != nil {
		logger.Fatal("Failed to seed database", "error", err)
	}

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close redis client", err)
		}
	}()

	queue := tasks.NewClient(cfg)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Error("Failed to close task queue client", err)
		}
	}()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	locationRepo := psqlRepo.NewLocationRepository(db)
	jobRepo := psqlRepo.NewInferenceRepository(db)
	resultRepo := psqlRepo.NewResultRepository(db)
	modelRepo := psqlRepo.NewModelRepository(db)
	datasetRepo := psqlRepo.NewDatasetRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)
	statusRepo := redisRepo.NewStatusRepository(redisClient)

	// Init service
	registryService := registry.NewRegistryService(modelRepo)
	inferenceService := inference.NewInferenceService(
		userRepo, locationRepo, jobRepo, resultRepo,
		registryService, model.NewCache(), statusRepo, queue, eventRepo,
	)
	curationService := curation.NewCurationService(resultRepo, locationRepo, userRepo, eventRepo)
	trainingService := training.NewTrainingService(
		registryService, resultRepo, datasetRepo, queue, eventRepo,
		training.Defaults{
			ArtifactRoot:     cfg.Training.ArtifactRoot,
			Epochs:           cfg.Training.Epochs,
			BatchSize:        cfg.Training.BatchSize,
			PositiveFraction: cfg.Training.PositiveFraction,
			KBest:            cfg.Training.KBest,
			HeldOutSize:      cfg.Training.HeldOutSize,
			Seed:             cfg.Training.Seed,
		},
	)

	// Init handler
	inferenceHandler := rest.NewInferenceHandler(inferenceService)
	curationHandler := rest.NewCurationHandler(curationService)
	trainingHandler := rest.NewTrainingHandler(trainingService, registryService)
	healthHandler := rest.NewHealthHandler(db, redisClient)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.MetricsMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	adminOnly := middleware.AdminMiddleware(cfg.JWT.SecretKey)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupInferenceRoutes(api, inferenceHandler, curationHandler)
	router.SetupTrainingRoutes(api, trainingHandler, adminOnly)
	router.SetupContentRoutes(api, curationHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", healthHandler.Healthz)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
