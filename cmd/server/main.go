package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/colerae/matchbox/internal/api"
	"github.com/colerae/matchbox/internal/config"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/repository/memory"
	"github.com/colerae/matchbox/internal/repository/postgres"
	"github.com/colerae/matchbox/internal/repository/redisstore"
	"github.com/colerae/matchbox/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize repositories
	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("failed to initialize %s storage: %v", cfg.StorageBackend, err)
	}
	log.Printf("Storage backend: %s", cfg.StorageBackend)

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Runner lifetime is bound to this context, not to any one request
	runCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()

	if err := services.Runner.Start(runCtx); err != nil {
		log.Fatalf("failed to start runner: %v", err)
	}

	// Initialize router
	router := api.NewRouter(services, repos, runCtx)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	services.Runner.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func buildRepositories(cfg *config.Config) (*repository.Repositories, error) {
	switch cfg.StorageBackend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewRepositories(db), nil
	case "redis":
		client, err := redisstore.Connect(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisstore.NewRepositories(client), nil
	default:
		return memory.NewRepositories(), nil
	}
}
