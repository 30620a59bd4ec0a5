package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	apphttp "spendwise/internal/http"
	applog "spendwise/internal/log"
	"spendwise/internal/services"
	"spendwise/internal/session"
	"spendwise/internal/store"
	"spendwise/internal/store/memory"
	"spendwise/internal/store/sqlite"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "spendwise"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.StoreBackend {
	case "sqlite":
		st, err = sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite store", "path", cfg.SQLiteDBPath)
	default:
		st = memory.NewFromFile(cfg.SeedFile)
		logger.Info("Initialized memory store", "seed_file", cfg.SeedFile)
	}
	defer st.Close()

	cred, err := services.NewCredential(cfg.CredentialScheme)
	if err != nil {
		logger.Error("Invalid credential scheme", "error", err)
		os.Exit(1)
	}

	opts := []services.Option{
		services.WithCredential(cred),
		services.WithStrengthOnLogin(cfg.EnforceStrengthOnLogin),
	}

	// Alert publishing is optional; without a broker the alert still renders
	// inline on the dashboard.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without alert publishing", "error", err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, services.WithAlertPublisher(amqpClient))
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewAccountService(st, session.New(), opts...)
	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spendwise server", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
