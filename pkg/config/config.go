package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
	Training TrainingConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type WorkerConfig struct {
	// Concurrency for the inference queue. The training queue is always
	// consumed with concurrency 1 so training runs never overlap.
	InferenceConcurrency int
}

type TrainingConfig struct {
	ArtifactRoot string
	Epochs       int
	BatchSize    int
	// Fraction of each mini-batch drawn from label=1 rows.
	PositiveFraction float64
	KBest            int
	HeldOutSize      int
	Seed             int64
	// Path to the locations catalog used to seed an empty database.
	CatalogFile string
}

type JWTConfig struct {
	SecretKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "StayRank API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "stayrank"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Worker: WorkerConfig{
			InferenceConcurrency: getEnvInt("WORKER_INFERENCE_CONCURRENCY", 4),
		},
		Training: TrainingConfig{
			ArtifactRoot:     getEnv("MODEL_ARTIFACT_ROOT", "./models"),
			Epochs:           getEnvInt("TRAIN_EPOCHS", 100),
			BatchSize:        getEnvInt("TRAIN_BATCH_SIZE", 8),
			PositiveFraction: getEnvFloat("TRAIN_POSITIVE_FRACTION", 0.5),
			KBest:            getEnvInt("TRAIN_K_BEST", 20),
			HeldOutSize:      getEnvInt("TRAIN_HELD_OUT_SIZE", 1000),
			Seed:             int64(getEnvInt("TRAIN_RANDOM_SEED", 42)),
			CatalogFile:      getEnv("CATALOG_FILE", "./data/dataset_locations.tsv"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Training.BatchSize <= 0 {
		return nil, errors.New("training batch size must be positive")
	}

	if cfg.Training.PositiveFraction < 0 || cfg.Training.PositiveFraction > 1 {
		return nil, errors.New("training positive fraction must be in [0, 1]")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}
