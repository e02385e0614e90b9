package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Driver string // "sqlite" (default, local single-device) or "postgres"
	DSN    string
}

type AIConfig struct {
	EmbeddingProvider    string // "gemini" or "ollama"
	LLMProvider          string // "gemini" or "ollama"
	LLMModel             string
	GeminiAPIKey         string
	OllamaBaseURL        string
	OllamaEmbeddingModel string

	EmbedMaxAttempts int
	EmbedBackoffMs   int
}

type RetrievalConfig struct {
	TopK          int
	MinScore      float64
	EmbeddingDims int
	CacheTTLSec   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/journal.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "journal.db"),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			LLMProvider:          getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:             getEnv("LLM_MODEL", "gemini-1.5-flash"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbedMaxAttempts:     getEnvAsInt("EMBED_MAX_ATTEMPTS", 3),
			EmbedBackoffMs:       getEnvAsInt("EMBED_BACKOFF_BASE_MS", 500),
		},
		Retrieval: RetrievalConfig{
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 3),
			MinScore:      getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.7),
			EmbeddingDims: getEnvAsInt("EMBEDDING_DIMS", 768),
			CacheTTLSec:   getEnvAsInt("RETRIEVAL_CACHE_TTL_SEC", 300),
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
