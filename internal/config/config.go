// Package config provides configuration loading for the service.
package config

import (
	"os"
	"strconv"
)

// Config holds all service configuration, loaded from the environment.
// Empty backend settings select in-memory fallbacks, so the service runs
// with zero configuration for local development.
type Config struct {
	Port     int
	LogLevel string

	// Persistence.
	DatabaseURL             string // enables the Postgres job store
	StorageConnectionString string // enables the Azure object store
	StorageContainer        string
	StorageNamespace        string

	// Optional GPT-backed provider.
	OpenAIAPIKey string
	OpenAIModel  string
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Port:                    getEnvInt("PORT", 8080),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		StorageConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
		StorageContainer:        getEnv("STORAGE_CONTAINER", "singularsity-synthetic-data"),
		StorageNamespace:        getEnv("STORAGE_NAMESPACE", "singularsity-data"),
		OpenAIAPIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:             os.Getenv("OPENAI_MODEL"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
