package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-rules/internal/config"
	"github.com/iamasit07/connect4-rules/internal/repository/memory"
	"github.com/iamasit07/connect4-rules/internal/repository/postgres"
	"github.com/iamasit07/connect4-rules/internal/repository/redis"
	"github.com/iamasit07/connect4-rules/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-rules/internal/transport/http"
	"github.com/iamasit07/connect4-rules/internal/transport/websocket"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadConfig()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// 1. Ledger: postgres when configured, memory otherwise
	var ledger redis.Ledger
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			logger.Fatal("database unreachable", zap.Error(err))
		}
		defer db.Close()

		logger.Info("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		ledger = postgres.NewLedger(db)
	} else {
		logger.Warn("DATABASE_URL not set, keeping the ledger in memory")
		ledger = memory.NewLedger()
	}

	// 2. Snapshot cache
	redisClient := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cached := redis.NewCachedLedger(ledger, redisClient, cfg.CacheTTL, logger)

	// 3. Services
	connManager := websocket.NewConnectionManager()
	gameService := game.NewService(cached, game.VerifyingCounterSigner{}, connManager, logger)

	// 4. Handlers
	wsHandler := websocket.NewHandler(connManager, cfg.JWTSecret, cfg.AllowedOrigins, logger)
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Games:          transportHttp.NewGameHandler(gameService),
		WebSocket:      wsHandler.HandleWebSocket,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
