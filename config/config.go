// Package config provides configuration for the chat server process. The
// engine core takes credentials per call; nothing here is a credential.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Completion backend
	LLMBaseURL string
	LLMTimeout time.Duration
	MockMode   bool

	// Transcript stores
	LogFile     string
	DatabaseURL string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		LLMBaseURL:  getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMTimeout:  time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MockMode:    getEnv("CHAT_MODE", "") == "MOCK",
		LogFile:     getEnv("LOG_FILE", "chat_logs.csv"),
		DatabaseURL: getEnv("DATABASE_URL", "file:transcript.db?cache=shared&mode=rwc"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
