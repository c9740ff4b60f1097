package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	// AIProvider selects the completion backend: "openrouter", "anthropic" or "mock".
	AIProvider string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	AnthropicAPIKey string

	// MockAICalls forces the mock backend regardless of AIProvider. Useful for
	// exercising the rest of the app without spending tokens.
	MockAICalls bool

	MaxUploadBytes int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DB_URL"),
		AIProvider:        getEnv("AI_PROVIDER", "openrouter"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-3.5-turbo"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		MockAICalls:       os.Getenv("MOCK_AI_CALLS") == "true",
		MaxUploadBytes:    50 * 1024 * 1024,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
