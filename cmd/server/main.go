package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/postpulse/internal/app"
	"github.com/pscheid92/postpulse/internal/config"
	"github.com/pscheid92/postpulse/internal/database"
	"github.com/pscheid92/postpulse/internal/identity"
	"github.com/pscheid92/postpulse/internal/logging"
	"github.com/pscheid92/postpulse/internal/reactions"
	"github.com/pscheid92/postpulse/internal/redis"
	"github.com/pscheid92/postpulse/internal/server"
	wshub "github.com/pscheid92/postpulse/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, hub *wshub.Hub, feed *app.PostFeed) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()
		feed.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	postRepo := database.NewPostRepo(pool)
	userRepo := database.NewUserRepo(pool)
	reactionRepo := database.NewReactionRepo(pool)

	engine := reactions.NewEngine(pool)
	pubsub := redis.NewPubSub(redisClient)
	appSvc := app.NewService(postRepo, userRepo, reactionRepo, engine, pubsub)

	// The feed subscribes to a post's updates when its first client connects
	// and pushes each update into the hub. The hub pointer is nil until both
	// sides exist; Activate only fires after a client registers, by which
	// point the hub is set.
	var hub *wshub.Hub
	feed := app.NewPostFeed(pubsub, func(postID uuid.UUID, data []byte) {
		hub.Broadcast(postID, data)
	})
	hub = wshub.NewHub(feed.Activate, feed.Deactivate, cfg.MaxClientsPerPost)

	resolver := identity.NewResolver(cfg.JWTSecret, clock)

	srv := server.NewServer(cfg, appSvc, appSvc, resolver, hub, pool, redisClient)

	done := runGracefulShutdown(srv, hub, feed)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
