package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ingredient-parser/backend/config"
	httpDelivery "github.com/ingredient-parser/backend/internal/delivery/http"
	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/infrastructure/cache"
	"github.com/ingredient-parser/backend/internal/infrastructure/grammar"
	"github.com/ingredient-parser/backend/internal/infrastructure/knowledge"
	"github.com/ingredient-parser/backend/internal/infrastructure/tagger"
	"github.com/ingredient-parser/backend/internal/infrastructure/units"
	"github.com/ingredient-parser/backend/internal/logger"
	"github.com/ingredient-parser/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	appLog.Info("starting ingredient parser",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache_type", cfg.Cache.Type,
		"concurrency", cfg.Server.Concurrency,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		appLog.Fatal("failed to initialize cache", "error", err)
	}
	defer closeCache()

	// Unit registry backs both the grammar lexicon and conversion
	registry := units.NewRegistry()

	deps := usecase.IngredientServiceDeps{
		Grammar:   grammar.New(registry.Lexicon()),
		Converter: registry,
		Cache:     store,
		Log:       appLog,
	}

	if cfg.Knowledge.BaseURL != "" {
		knowledgeClient := knowledge.NewClient(cfg.Knowledge.BaseURL, knowledge.Options{
			Timeout:   cfg.Knowledge.Timeout,
			RateLimit: cfg.Knowledge.RateLimit,
		}, appLog)
		knowledgeClient.SetDebug(cfg.Knowledge.Debug)
		deps.Knowledge = knowledgeClient
		appLog.Info("knowledge service configured", "base_url", cfg.Knowledge.BaseURL)
	} else {
		appLog.Warn("knowledge service not configured, products will not be resolved")
	}

	if cfg.Tagger.BaseURL != "" {
		deps.Tagger = tagger.NewClient(cfg.Tagger.BaseURL, cfg.Tagger.Timeout, appLog)
		appLog.Info("tagger configured", "base_url", cfg.Tagger.BaseURL)
	}

	ingredientService := usecase.NewIngredientService(deps, usecase.IngredientServiceConfig{
		CacheTTL:    cfg.Cache.TTL,
		Concurrency: cfg.Server.Concurrency,
	})

	handler := httpDelivery.NewHandler(ingredientService, appLog)
	router := httpDelivery.SetupRouter(cfg, handler, appLog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
}

// newCache builds the configured resolution cache and its close func
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "ingredients:")
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}
