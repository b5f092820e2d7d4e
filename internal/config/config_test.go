package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DATABASE_URL", "AZURE_STORAGE_CONNECTION_STRING",
		"STORAGE_CONTAINER", "STORAGE_NAMESPACE", "OPENAI_API_KEY", "OPENAI_MODEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.StorageConnectionString)
	assert.Equal(t, "singularsity-synthetic-data", cfg.StorageContainer)
	assert.Equal(t, "singularsity-data", cfg.StorageNamespace)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/synthd")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("STORAGE_CONTAINER", "custom-container")
	t.Setenv("STORAGE_NAMESPACE", "custom-ns")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/synthd", cfg.DatabaseURL)
	assert.Equal(t, "UseDevelopmentStorage=true", cfg.StorageConnectionString)
	assert.Equal(t, "custom-container", cfg.StorageContainer)
	assert.Equal(t, "custom-ns", cfg.StorageNamespace)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
}

func TestLoadIgnoresMalformedPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
}
