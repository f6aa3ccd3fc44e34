package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-availability/internal/appointment"
	"github.com/hackgods/doctor-availability/internal/config"
	"github.com/hackgods/doctor-availability/internal/db"
	"github.com/hackgods/doctor-availability/internal/logging"
	redisclient "github.com/hackgods/doctor-availability/internal/redis"
	"github.com/hackgods/doctor-availability/internal/warm"
)

func main() {
	logger := logging.New("warm-worker", os.Getenv("APP_ENV"), "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}
	logger = logging.New("warm-worker", cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Int("warm_days", cfg.WarmDays).
		Msg("warm-worker starting up")

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

	rdb, err := redisclient.NewRedisClient(rootCtx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	repo := appointment.NewPgRepository(pgPool)
	warmer := warm.New(
		redisclient.NewAvailabilityCache(rdb, cfg.CacheTTL),
		redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL),
		warm.Config{Days: cfg.WarmDays, Location: cfg.Location},
		logger,
	)

	// Run once at startup
	runOnce(rootCtx, logger, repo, warmer)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping warm worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, logger, repo, warmer)
		}
	}
}

func runOnce(ctx context.Context, logger zerolog.Logger, repo appointment.Repository, warmer *warm.Warmer) {
	runCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	start := time.Now()
	snap, err := appointment.LoadSnapshot(runCtx, repo)
	if err != nil {
		logger.Error().Err(err).Msg("snapshot load error")
		return
	}

	res, err := warmer.Run(runCtx, appointment.NewService(snap), time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("warm run error")
		return
	}
	logger.Info().
		Int("doctors", res.Doctors).
		Int("skipped", res.Skipped).
		Int("entries", res.Entries).
		Uint64("version", snap.Version()).
		Dur("took", time.Since(start)).
		Msg("warm run complete")
}
