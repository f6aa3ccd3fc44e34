package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-availability/internal/api"
	"github.com/hackgods/doctor-availability/internal/appointment"
	"github.com/hackgods/doctor-availability/internal/config"
	"github.com/hackgods/doctor-availability/internal/db"
	"github.com/hackgods/doctor-availability/internal/logging"
	redisclient "github.com/hackgods/doctor-availability/internal/redis"
)

var version = "dev"

func main() {
	logger := logging.New("api-server", os.Getenv("APP_ENV"), "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}
	logger = logging.New("api-server", cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("clinic_tz", cfg.Location.String()).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	repo := appointment.NewPgRepository(pgPool)

	loadCtx, cancelLoad := context.WithTimeout(rootCtx, 30*time.Second)
	snap, err := appointment.LoadSnapshot(loadCtx, repo)
	cancelLoad()
	if err != nil {
		logger.Fatal().Err(err).Msg("initial snapshot load error")
	}
	holder := api.NewSnapshotHolder(appointment.NewService(snap))
	logSnapshot(logger, snap, "snapshot loaded")

	routerCfg := api.RouterConfig{
		Source:        holder,
		Location:      cfg.Location,
		Logger:        logger,
		PostgresCheck: pgPool.Ping,
		Env:           cfg.Env,
		Version:       version,
	}

	// Redis is optional; without it availability is computed per request.
	rdb, err := redisclient.NewRedisClient(rootCtx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, availability cache disabled")
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis")
			}
		}()
		logger.Info().Msg("connected to Redis")
		routerCfg.Cache = redisclient.NewAvailabilityCache(rdb, cfg.CacheTTL)
		routerCfg.RedisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.SnapshotRefresh > 0 {
		go refreshLoop(rootCtx, logger, repo, holder, cfg.SnapshotRefresh)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().Msg("api-server stopped")
}

// refreshLoop reloads the snapshot every interval. A failed load keeps the
// previous snapshot in place.
func refreshLoop(ctx context.Context, logger zerolog.Logger, repo appointment.Repository, holder *api.SnapshotHolder, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			snap, err := appointment.LoadSnapshot(loadCtx, repo)
			cancel()
			if err != nil {
				logger.Error().Err(err).Msg("snapshot refresh failed, keeping previous snapshot")
				continue
			}
			if holder.Swap(appointment.NewService(snap)) {
				logSnapshot(logger, snap, "snapshot refreshed")
			}
		}
	}
}

func logSnapshot(logger zerolog.Logger, snap *appointment.Snapshot, msg string) {
	logger.Info().
		Int("doctors", len(snap.Doctors())).
		Int("patients", len(snap.Patients())).
		Int("appointments", len(snap.Appointments())).
		Uint64("version", snap.Version()).
		Msg(msg)
}
