package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/internal/api"
	"product-catalog/internal/cache"
	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const defaultAppName = "ProductCatalogService"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found or failed to load, relying on system environment")
	}
	logger := log.New(os.Stdout, fmt.Sprintf("[%s] ", defaultAppName), log.LstdFlags|log.Lshortfile|log.Lmicroseconds)
	logger.Println("INFO: Starting service...")

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("FATAL: Error loading configuration: %v", err)
	}
	logger.Printf("INFO: Configuration loaded for APP_ENV: %s, store backend: %s", cfg.AppEnv, cfg.Store.Backend)

	// --- Repository ---
	productStore, closeStore, err := setupStore(logger, cfg)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize product store: %v", err)
	}
	defer closeStore()

	// --- Optional product cache ---
	var productCache catalog.ProductCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
		if err != nil {
			// The cache is an optimization; the service runs without it.
			logger.Printf("WARN: Product cache disabled: %v", err)
		} else {
			logger.Printf("INFO: Product cache connected at %s (TTL %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
			defer redisCache.Close()
			productCache = redisCache
		}
	}

	// --- Catalog service & HTTP layer ---
	service := catalog.NewService(productStore, productCache)
	httpAPIHandler := api.NewHTTPHandler(service)

	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, logger)
	registerServiceRoutes(httpRouter, logger)
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Printf("INFO: HTTP server listening on port %s", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("FATAL: HTTP server ListenAndServe error: %v", err)
		}
		logger.Println("INFO: HTTP server has stopped.")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(logger, httpServer, shutdownComplete)

	<-shutdownComplete
	logger.Println("INFO: Service shutdown sequence finished.")
}

// setupStore builds the configured ProductStorer and returns a cleanup
// function for it.
func setupStore(logger *log.Logger, cfg *config.Config) (store.ProductStorer, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Println("INFO: Using in-memory product store.")
		return store.NewMemoryStore(), func() {}, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
		}
		if err := db.PingContext(context.Background()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Println("INFO: Database connection established successfully.")
		pgStore := store.NewPostgresStore(db)
		return pgStore, func() {
			if err := pgStore.Close(); err != nil {
				logger.Printf("WARN: Error closing database connection: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func setupBaseMiddleware(router *chi.Mux, logger *log.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	logger.Println("INFO: Base HTTP middleware registered.")
}

// registerServiceRoutes adds the health check and the service index. The
// administrative UI consumes these alongside the /products resource.
func registerServiceRoutes(router *chi.Mux, logger *log.Logger) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  http.StatusOK,
			"message": "OK",
		})
	})

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":      defaultAppName,
			"resource":  "/products",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	logger.Println("INFO: Health and index routes registered.")
}

func waitForShutdown(logger *log.Logger, httpServer *http.Server, shutdownComplete chan struct{}) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	logger.Printf("INFO: Received signal: %s. Starting graceful shutdown...", receivedSignal)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("WARN: HTTP server graceful shutdown failed: %v", err)
	} else {
		logger.Println("INFO: HTTP server gracefully shut down.")
	}
}
