package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TASKFLOW_INT", "42")
	t.Setenv("TASKFLOW_BAD_INT", "forty-two")
	t.Setenv("TASKFLOW_BOOL", "true")

	assert.Equal(t, 42, getEnvAsInt("TASKFLOW_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TASKFLOW_BAD_INT", 1))
	assert.Equal(t, 7, getEnvAsInt("TASKFLOW_UNSET_INT", 7))
	assert.True(t, getEnvAsBool("TASKFLOW_BOOL", false))
	assert.Equal(t, "fallback", getEnv("TASKFLOW_UNSET", "fallback"))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MODEL_PROVIDER", "Gemini")

	LoadConfig()

	assert.Equal(t, "gemini", AppConfig.ModelProvider)
	assert.Equal(t, 5, AppConfig.RateLimitPerMinute)
	assert.Equal(t, 168, AppConfig.SessionTTLHours)
	assert.Equal(t, "", AppConfig.ModelAPIKey())
}

func TestModelAPIKeyFollowsProvider(t *testing.T) {
	c := Config{ModelProvider: "openai", OpenAIAPIKey: "sk-open", GeminiAPIKey: "g-key"}
	assert.Equal(t, "sk-open", c.ModelAPIKey())

	c.ModelProvider = "gemini"
	assert.Equal(t, "g-key", c.ModelAPIKey())
}

func TestLoadConfigWithoutSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	LoadConfig()

	assert.Error(t, AppConfig.RequireSessionSecret())
	assert.NoError(t, Config{SessionSecret: "s3cret"}.RequireSessionSecret())
}
