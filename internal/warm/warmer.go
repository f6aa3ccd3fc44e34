// Package warm precomputes doctor availability into the shared cache so the
// api serves the common single-day queries without recomputing them.
package warm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/doctor-availability/internal/appointment"
	redisclient "github.com/hackgods/doctor-availability/internal/redis"
)

const defaultParallelism = 8

type SlotStore interface {
	Set(ctx context.Context, key string, slots []time.Time) error
}

type Config struct {
	Days        int
	Slot        time.Duration
	Location    *time.Location
	Parallelism int
}

type Warmer struct {
	store  SlotStore
	locker redisclient.Locker
	cfg    Config
	logger zerolog.Logger
}

func New(store SlotStore, locker redisclient.Locker, cfg Config, logger zerolog.Logger) *Warmer {
	if cfg.Days < 1 {
		cfg.Days = 1
	}
	if cfg.Slot <= 0 {
		cfg.Slot = appointment.DefaultSlotDuration
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = defaultParallelism
	}
	return &Warmer{store: store, locker: locker, cfg: cfg, logger: logger}
}

type Result struct {
	Doctors int // doctors warmed by this run
	Skipped int // doctors another worker held the lock for
	Entries int // cache entries written
}

// Run warms Days calendar days starting with now's date for every doctor.
func (w *Warmer) Run(ctx context.Context, svc *appointment.Service, now time.Time) (Result, error) {
	first := appointment.StartOfDay(now.In(w.cfg.Location))
	version := svc.Snapshot().Version()

	var warmed, skipped, entries atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Parallelism)

	for _, doc := range svc.AllDoctors() {
		g.Go(func() error {
			err := w.locker.WithDoctorLock(gctx, doc.ID, func(ctx context.Context) error {
				for i := 0; i < w.cfg.Days; i++ {
					day := first.AddDate(0, 0, i)
					key := redisclient.AvailabilityKey(version, doc.ID, day.Format(appointment.DateLayout), w.cfg.Slot)
					if err := w.store.Set(ctx, key, svc.AvailableSlots(doc.ID, day, w.cfg.Slot)); err != nil {
						return err
					}
					entries.Add(1)
				}
				return nil
			})
			switch {
			case errors.Is(err, redisclient.ErrLockNotAcquired):
				w.logger.Debug().Str("doctor_id", doc.ID.String()).Msg("doctor locked by another worker, skipping")
				skipped.Add(1)
				return nil
			case err != nil:
				return fmt.Errorf("warm doctor %s: %w", doc.ID, err)
			}
			warmed.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return Result{
		Doctors: int(warmed.Load()),
		Skipped: int(skipped.Load()),
		Entries: int(entries.Load()),
	}, err
}
