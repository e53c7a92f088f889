package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ModelProvider      string
	ModelName          string
	GeminiAPIKey       string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	DatabaseURL        string
	HTTPPort           string
	LogLevel           string
	SessionSecret      string
	SessionTTLHours    int
	CookieSecure       bool
	RateLimitPerMinute int
}

var AppConfig Config

// LoadConfig populates AppConfig from the environment. Nothing is fatal here: a
// missing model API key is reported by the assistant when it is first called, and
// serve checks the session secret itself.
func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		ModelProvider:      strings.ToLower(getEnv("MODEL_PROVIDER", "gemini")),
		ModelName:          getEnv("MODEL_NAME", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		DatabaseURL:        getEnv("DATABASE_URL", "taskflow.db"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTLHours:    getEnvAsInt("SESSION_TTL_HOURS", 24*7),
		CookieSecure:       getEnvAsBool("COOKIE_SECURE", false),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 5),
	}
}

// RequireSessionSecret reports a missing SESSION_SECRET. Only the HTTP server
// issues session cookies, so only it needs the secret.
func (c Config) RequireSessionSecret() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	return nil
}

// ModelAPIKey returns the credential of the configured model provider.
func (c Config) ModelAPIKey() string {
	if c.ModelProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
