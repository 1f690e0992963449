package main

import (
	"context"
	"fmt"
	"log"

	"stayRank/business/inference"
	"stayRank/business/model"
	"stayRank/business/registry"
	"stayRank/business/training"
	psqlRepo "stayRank/internal/repository/postgres"
	redisRepo "stayRank/internal/repository/redis"
	"stayRank/internal/tasks"
	"stayRank/pkg/config"
	"stayRank/pkg/database"
	redisdb "stayRank/pkg/database/redis"
	"stayRank/pkg/logger"
	"stayRank/pkg/metrics"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting StayRank worker", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

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

	redisOpt := asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort),
		Password: cfg.Redis.RedisPassword,
		DB:       cfg.Redis.RedisDB,
	}

	// Two servers: inference fans out across the configured concurrency,
	// training gets its own server with concurrency 1 so challenger runs
	// never overlap.
	inferenceSrv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.InferenceConcurrency,
		Queues:      map[string]int{tasks.QueueInference: 1},
	})
	trainingSrv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{tasks.QueueTraining: 1},
	})

	mux := asynq.NewServeMux()
	tasks.NewHandlers(inferenceService, trainingService).Register(mux)

	logger.Info("Worker starting",
		"inference_concurrency", cfg.Worker.InferenceConcurrency,
	)

	if err := trainingSrv.Start(mux); err != nil {
		logger.Fatal("Failed to start training consumer", "error", err)
	}

	if err := inferenceSrv.Run(mux); err != nil {
		logger.Fatal("Worker stopped with error", "error", err)
	}

	trainingSrv.Shutdown()
}
