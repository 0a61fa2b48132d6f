package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/league-damage-calc/internal/api"
	"github.com/dom/league-damage-calc/internal/cache"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/repository"
	"github.com/dom/league-damage-calc/internal/repository/memory"
	"github.com/dom/league-damage-calc/internal/repository/postgres"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/websocket"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	// Initialize repositories
	var repos *repository.Repositories
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		repos = postgres.NewRepositories(db)
	} else {
		repos, err = memory.NewRepositories(ds)
		if err != nil {
			log.Fatalf("failed to build catalog: %v", err)
		}
		log.Println("DATABASE_URL not set, serving the dataset from memory")
	}

	// Initialize search cache
	var searchCache cache.SearchCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		searchCache, err = cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
	} else {
		searchCache = cache.NewMemoryCache(time.Minute)
	}
	defer searchCache.Close()

	// Initialize services
	services := service.NewServices(repos, searchCache, cfg)

	seeded, err := services.Catalog.SeedIfEmpty(context.Background(), ds)
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	if seeded {
		log.Println("Seeded empty catalog from dataset")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(services.Damage)
	go hub.Run()

	// Initialize router
	router := api.NewRouter(services, hub)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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
	hub.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loadDataset(cfg *config.Config) (*dataset.Dataset, error) {
	if cfg.DataDir != "" {
		return dataset.LoadDir(cfg.DataDir)
	}
	return dataset.LoadDefault()
}
