package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simplesales/internal/config"
	"simplesales/internal/infra"
	"simplesales/internal/repository"
	"simplesales/internal/router"
	"simplesales/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DatabaseOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notifications are optional: without them the API runs on Postgres alone.
	var (
		rdb    *redis.Client
		smtpCB *infra.SMTPBreaker
		pool   *worker.Pool
	)
	if cfg.NotificationsEnabled {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		// Worker handlers are wired here (composition root) so the pool has
		// access to all infrastructure dependencies.
		smtpCB = infra.NewSMTPBreaker(cfg)
		notificacoes := worker.NewNotificacaoWorker(
			repository.NewVendaRepository(db),
			infra.NewMailer(cfg),
			smtpCB,
			cfg.PDFStoragePath,
		)
		pool = worker.NewPool(rdb, map[string]worker.JobHandler{
			worker.JobNotificacaoVenda: notificacoes,
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, db, rdb, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Simple Sales API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	log.Info().Msg("server exited")
}

// setupLogger configures the global zerolog logger: console output in development, JSON in production.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "simplesales").Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
