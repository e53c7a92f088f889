package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"taskflow.app/taskflow/internal/config"
	"taskflow.app/taskflow/internal/core"
	"taskflow.app/taskflow/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskflow",
		Short: "Task manager with a planning assistant",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load configuration
			config.LoadConfig()

			// Setup logging
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			if config.AppConfig.LogLevel == "DEBUG" {
				log.Println("Service starting in DEBUG mode")
			}
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the services shared by every subcommand.
type app struct {
	store     *store.Store
	provider  core.ModelProvider
	registry  *prometheus.Registry
	assistant *core.Assistant
	users     *core.UserService
	tasks     *core.TaskService
	chats     *core.ChatService
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.AppConfig

	// Initialize database store
	dbStore, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		dbStore.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	limiter := core.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, nil)
	assistant := core.NewAssistant(provider, limiter,
		core.WithMetrics(core.NewMetrics(registry)),
		core.WithDebugLogging(cfg.LogLevel == "DEBUG"),
	)

	return &app{
		store:     dbStore,
		provider:  provider,
		registry:  registry,
		assistant: assistant,
		users:     core.NewUserService(dbStore),
		tasks:     core.NewTaskService(dbStore),
		chats:     core.NewChatService(dbStore),
	}, nil
}

func (a *app) Close() {
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			log.Printf("Error closing model provider: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// newProvider returns nil without an API key; the assistant then reports
// ErrMissingAPIKey on each call.
func newProvider(ctx context.Context, cfg config.Config) (core.ModelProvider, error) {
	apiKey := cfg.ModelAPIKey()
	if apiKey == "" {
		log.Printf("Warning: no API key configured for model provider %q", cfg.ModelProvider)
		return nil, nil
	}

	switch cfg.ModelProvider {
	case "openai":
		return core.NewOpenAIProvider(apiKey, cfg.OpenAIBaseURL, cfg.ModelName), nil
	case "gemini", "":
		p, err := core.NewGeminiProvider(ctx, apiKey, cfg.ModelName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", cfg.ModelProvider)
	}
}
