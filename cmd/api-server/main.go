package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pegasus-health/hospital-booking/internal/api"
	"github.com/pegasus-health/hospital-booking/internal/appointment"
	"github.com/pegasus-health/hospital-booking/internal/auth"
	"github.com/pegasus-health/hospital-booking/internal/config"
	"github.com/pegasus-health/hospital-booking/internal/db"
	"github.com/pegasus-health/hospital-booking/internal/directory"
	"github.com/pegasus-health/hospital-booking/internal/logging"
	"github.com/pegasus-health/hospital-booking/internal/patient"
	redisclient "github.com/pegasus-health/hospital-booking/internal/redis"
	"github.com/pegasus-health/hospital-booking/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.Env, "api-server")
	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, cfg.PGMaxConns)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	patientRepo := patient.NewPgRepository(pgPool)
	directoryRepo := directory.NewPgRepository(pgPool)
	scheduleRepo := schedule.NewPgRepository(pgPool)
	apptRepo := appointment.NewPgRepository(pgPool)

	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL)

	patients := patient.NewService(patientRepo, tokens, cfg.BcryptCost, logger)
	dir := directory.NewService(directoryRepo, tokens, cfg.BcryptCost, logger)
	schedules := schedule.NewService(scheduleRepo, logger)
	appts := appointment.NewService(apptRepo, scheduleRepo, patientRepo, directoryRepo, locker, cfg, logger)

	router := api.NewRouter(api.RouterConfig{
		Patients:     patients,
		Directory:    dir,
		Schedules:    schedules,
		Appointments: appts,
		Tokens:       tokens,
		PgPool:       pgPool,
		Redis:        rdb,
		Logger:       logger,
		CORSOrigins:  strings.Split(cfg.CORSOrigins, ","),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutting down api-server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
