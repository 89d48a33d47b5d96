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
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ThreadTitleTopic   string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI     string
	BingSearch string
}

type AIConfig struct {
	AssistantName      string
	LLMProvider        string // "openai" or "ollama"
	LLMModel           string // default tier, e.g. "gpt-4o-mini"
	LLMFastModel       string // fast/cheap tier, e.g. "gpt-35-turbo-16k"
	AllowTierSelection bool   // when false the default tier always wins
	OpenAIBaseURL      string // optional override for Azure/compatible endpoints
	OllamaBaseURL      string
	EmbeddingProvider  string // "openai" or "ollama"
	EmbeddingModel     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ThreadTitleTopic:   getEnv("THREAD_TITLE_TOPIC_NAME", "CHAT_THREAD_TITLE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
			BingSearch: getEnv("BING_SEARCH_API_KEY", ""),
		},
		Ai: AIConfig{
			AssistantName:      getEnv("AI_ASSISTANT_NAME", "社内AIアシスタント"),
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMFastModel:       getEnv("LLM_FAST_MODEL", "gpt-35-turbo-16k"),
			AllowTierSelection: getEnvAsBool("AI_ALLOW_TIER_SELECTION", false),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
