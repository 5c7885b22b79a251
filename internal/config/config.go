package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EmbedTopic         string // in-process queue for embedding refresh jobs
}

type DatabaseConfig struct {
	Connection string
}

// EngineConfig bounds the embedding and edge-discovery engine.
type EngineConfig struct {
	EmbeddingDimension  int     // must match the vector(D) column
	SimilarityThreshold float64 // τ for candidate edges
	RebuildBatchCeiling int     // max notes per rebuild call
	SimilarDefaultLimit int
	SimilarMaxLimit     int
	PairScanCeiling     int // max unordered pairs per generation pass
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EmbedTopic:         getEnv("EMBED_NOTE_TOPIC_NAME", "EMBED_NOTE_CONTENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Engine: EngineConfig{
			EmbeddingDimension:  getEnvAsInt("EMBEDDING_DIMENSION", 128),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.35),
			RebuildBatchCeiling: getEnvAsInt("REBUILD_BATCH_CEILING", 200),
			SimilarDefaultLimit: getEnvAsInt("SIMILAR_DEFAULT_LIMIT", 10),
			SimilarMaxLimit:     getEnvAsInt("SIMILAR_MAX_LIMIT", 50),
			PairScanCeiling:     getEnvAsInt("PAIR_SCAN_CEILING", 250000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
