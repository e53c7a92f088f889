package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"taskflow.app/taskflow/internal/api"
	"taskflow.app/taskflow/internal/auth"
	"taskflow.app/taskflow/internal/config"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg := config.AppConfig
	if err := cfg.RequireSessionSecret(); err != nil {
		return err
	}

	a, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	sessions := auth.NewSessionManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour, cfg.CookieSecure)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(a.users, a.tasks, a.chats, a.assistant, sessions)
	router := api.NewRouter(apiHandler, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Model calls with retries can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting gracefully")
	return nil
}
