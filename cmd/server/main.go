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

	"climbing-gym/belay/internal/api"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/config"
	"climbing-gym/belay/internal/db"
	"climbing-gym/belay/internal/jobs"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/routes"
	"climbing-gym/belay/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Env.Name, cfg.Env.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Belay starting up",
		"environment", cfg.Env.Name,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.Postgres.DSN()

	// Connect to DB with sqlx
	if err := db.InitPostgres(dsn); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	gormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}

	redisClient := common.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	metricsReg := metrics.NewMetricsRegistry()

	deps, err := api.InitDependencies(ctx, cfg, gormDB, db.DB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	workers.InitWorkers(ctx, cfg.Queue, deps.Services.RedisQueue, deps.Providers.Mailer, deps.Providers.Push, deps.Repo.User, metricsReg)
	jobs.InitializeJobs(ctx, deps.Services.Expiry, metricsReg)

	upSince := time.Now()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           routes.RegisterRoutes(ctx, deps, upSince),
		ReadTimeout:       cfg.HTTP.Timeouts.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.Timeouts.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.Timeouts.WriteTimeout,
		IdleTimeout:       cfg.HTTP.Timeouts.IdleTimeout,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTP.Port, "environment", cfg.Env.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := db.DB.Close(); err != nil {
		logging.Warn("Failed to close sqlx pool", "error", err.Error())
	}
	logging.Info("Server stopped")
}
