package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/barber-finder/internal/config"
	httpDelivery "github.com/barber-finder/internal/delivery/http"
	"github.com/barber-finder/internal/delivery/http/handler"
	"github.com/barber-finder/internal/domain/repository"
	"github.com/barber-finder/internal/infrastructure/googlemaps"
	"github.com/barber-finder/internal/pkg/logger"
	"github.com/barber-finder/internal/repository/cache"
	"github.com/barber-finder/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Barber Finder")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Precondition: credential must be present before any network activity
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// 4. Connect to Redis (optional geocode cache)
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Host != "" && cfg.Cache.GeocodeCacheTTL > 0 {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Health(ctx); err != nil {
			cancel()
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		cancel()

		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Geocode cache enabled",
			zap.Duration("ttl", cfg.Cache.GeocodeCacheTTL))
	} else {
		log.Info("Geocode cache disabled")
	}

	// 5. Initialize Google Maps client
	placesRepo, err := googlemaps.NewClient(&cfg.Google, log)
	if err != nil {
		log.Fatal("Failed to initialize Google Maps client", zap.Error(err))
	}
	log.Info("Google Maps client initialized")

	// 6. Initialize Use Cases
	searchUC := usecase.NewPlaceSearchUseCase(
		placesRepo,
		cacheRepo,
		log,
		cfg.Search,
		cfg.Cache.GeocodeCacheTTL,
		nil,
	)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Handlers
	placeHandler := handler.NewPlaceHandler(searchUC, log)

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, placeHandler)

	log.Info("HTTP server initialized")

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
