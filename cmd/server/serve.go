package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/anonto42/socialnet/backend/internal/handlers"
	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/internal/realtime"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/internal/router"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/anonto42/socialnet/backend/pkg/config"
	"github.com/anonto42/socialnet/backend/pkg/firebase"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 15 * time.Second
	relayChannel    = "socialnet:live"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate(ctx, db); err != nil {
		return err
	}

	hub := realtime.NewHub()
	publisher, presence, closePublishers := livePublisher(ctx, cfg, hub)
	defer closePublishers()
	go hub.Run()

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL)
	svc := services.New(repositories.New(db.Postgres, db.Content), publisher, tokens, firebaseVerifier(ctx, cfg))
	svc.Notifier.SetPresence(presence)

	e := router.New(router.Dependencies{
		Services: svc,
		Tokens:   tokens,
		Hub:      hub,
		Health: map[string]handlers.Pinger{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.Postgres.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"mongo": func(ctx context.Context) error {
				return db.Mongo.Ping(ctx, nil)
			},
		},
		CORS: cfg.CORSConfig(),
	})

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Log.Info("Metrics listener started", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Metrics listener failed", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("HTTP server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down")
	case err := <-serverErr:
		logger.Log.Error("HTTP server failed", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("HTTP server shutdown", zap.Error(err))
	}
	// pending fan-outs still need the databases and publishers
	svc.Notifier.Wait()
	if err := hub.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Websocket hub shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Metrics listener shutdown", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
	return nil
}

// livePublisher fans live events out to the local hub, through Redis when
// several instances share it, and to Kafka when brokers are configured.
// Presence comes from Redis when the relay is up and from the hub otherwise.
func livePublisher(ctx context.Context, cfg *config.Config, hub *realtime.Hub) (realtime.Publisher, realtime.Presence, func()) {
	var (
		publishers realtime.MultiPublisher
		presence   realtime.Presence = hub
		closers    []func()
	)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("Redis unavailable, delivering live events locally", zap.Error(err))
			_ = rdb.Close()
			publishers = append(publishers, hub)
		} else {
			relay := realtime.NewRedisRelay(rdb, relayChannel, hub)
			hub.SetPresenceTracker(relay)
			presence = relay
			go func() {
				if err := relay.Run(ctx); err != nil {
					logger.Log.Error("Redis relay stopped", zap.Error(err))
				}
			}()
			publishers = append(publishers, relay)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	} else {
		publishers = append(publishers, hub)
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafka := realtime.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publishers = append(publishers, kafka)
		closers = append(closers, func() {
			if err := kafka.Close(); err != nil {
				logger.Log.Warn("Closing Kafka writer", zap.Error(err))
			}
		})
		logger.Log.Info("Publishing activity to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	return publishers, presence, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// firebaseVerifier is nil unless credentials are configured
func firebaseVerifier(ctx context.Context, cfg *config.Config) services.TokenVerifier {
	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if errors.Is(err, firebase.ErrNotConfigured) {
		logger.Log.Info("Firebase login disabled")
		return nil
	}
	if err != nil {
		logger.Log.Warn("Firebase login disabled", zap.Error(err))
		return nil
	}
	return app
}
