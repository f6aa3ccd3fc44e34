package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/doctor-availability/internal/appointment"
	"github.com/hackgods/doctor-availability/internal/config"
	"github.com/hackgods/doctor-availability/internal/db"
	"github.com/hackgods/doctor-availability/internal/logging"
)

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	Days        int
	DoctorLimit int
	Location    *time.Location
	PostgresDSN string
}

type DataPool struct {
	Doctors []uuid.UUID
	Dates   []time.Time
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	logger  zerolog.Logger
}

func main() {
	logger := logging.New("simulate", os.Getenv("APP_ENV"), "info")

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	logger.Info().
		Str("api", cfg.APIBaseURL).
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Int("days", cfg.Days).
		Msg("simulator starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, appointment.NewPgRepository(pgPool), cfg, time.Now())
	if err != nil {
		logger.Fatal().Err(err).Msg("load data pool")
	}
	logger.Info().Int("doctors", len(dataPool.Doctors)).Int("dates", len(dataPool.Dates)).Msg("data pool loaded")

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}

	if err := sim.Run(); err != nil {
		logger.Error().Err(err).Msg("simulation aborted")
	}
	sim.PrintReport()
}

func loadConfig() (SimConfig, error) {
	baseCfg, err := config.Load()
	if err != nil {
		return SimConfig{}, fmt.Errorf("load base config: %w", err)
	}

	cfg := SimConfig{
		APIBaseURL:  strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:8080"), "/"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		Days:        getInt("SIM_DAYS", baseCfg.WarmDays),
		DoctorLimit: getInt("SIM_DOCTOR_LIMIT", 100),
		Location:    baseCfg.Location,
		PostgresDSN: baseCfg.PostgresDSN,
	}

	if cfg.Workers <= 0 {
		return SimConfig{}, fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return SimConfig{}, fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Days <= 0 {
		return SimConfig{}, fmt.Errorf("SIM_DAYS must be > 0")
	}
	return cfg, nil
}

func loadDataPool(ctx context.Context, repo appointment.Repository, cfg SimConfig, now time.Time) (*DataPool, error) {
	doctors, err := repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	if len(doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded")
	}

	pool := &DataPool{}
	for i, d := range doctors {
		if cfg.DoctorLimit > 0 && i >= cfg.DoctorLimit {
			break
		}
		pool.Doctors = append(pool.Doctors, d.ID)
	}

	first := appointment.StartOfDay(now.In(cfg.Location))
	for i := 0; i < cfg.Days; i++ {
		pool.Dates = append(pool.Dates, first.AddDate(0, 0, i))
	}
	return pool, nil
}

// Run drives the read endpoints from Workers goroutines until Duration elapses.
func (s *Simulator) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.config.Workers; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			s.worker(gctx, rand.New(rand.NewSource(seed)))
			return nil
		})
	}
	err := g.Wait()
	s.logger.Info().Msg("simulation complete")
	return err
}

func (s *Simulator) worker(ctx context.Context, rng *rand.Rand) {
	for ctx.Err() == nil {
		doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
		day := s.pool.Dates[rng.Intn(len(s.pool.Dates))]
		date := day.Format(appointment.DateLayout)
		base := fmt.Sprintf("%s/doctors/%s", s.config.APIBaseURL, doctorID)

		switch rng.Intn(5) {
		case 0, 1:
			// availability dominates real traffic
			slot := []int{15, 30, 30, 60}[rng.Intn(4)]
			s.doAvailability(ctx, fmt.Sprintf("%s/availability?date=%s&slot_minutes=%d", base, date, slot))
		case 2:
			s.do(ctx, &s.metrics.Appointments, fmt.Sprintf("%s/appointments?date=%s&populate=true", base, date))
		case 3:
			from := appointment.WeekStart(day)
			to := from.AddDate(0, 0, 6)
			s.do(ctx, &s.metrics.Stats, fmt.Sprintf("%s/stats?from=%s&to=%s",
				base, from.Format(appointment.DateLayout), to.Format(appointment.DateLayout)))
		case 4:
			if rng.Intn(2) == 0 {
				start := day.Add(time.Duration(8*60+rng.Intn(10*60)) * time.Minute)
				end := start.Add(30 * time.Minute)
				s.do(ctx, &s.metrics.Overlaps, fmt.Sprintf("%s/overlaps?start=%s&end=%s",
					base, queryInstant(start), queryInstant(end)))
			} else {
				s.do(ctx, &s.metrics.Schedule, fmt.Sprintf("%s/schedule?date=%s", base, date))
			}
		}
	}
}

func queryInstant(t time.Time) string {
	return strings.ReplaceAll(t.Format(time.RFC3339), "+", "%2B")
}

func (s *Simulator) get(ctx context.Context, url string) (*http.Response, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	resp, err := s.client.Do(req)
	return resp, time.Since(start), err
}

func classify(resp *http.Response, err error) outcome {
	switch {
	case err != nil:
		return outcomeError
	case resp.StatusCode == http.StatusOK:
		return outcomeSuccess
	case resp.StatusCode == http.StatusNotFound:
		return outcomeNotFound
	default:
		return outcomeError
	}
}

func (s *Simulator) do(ctx context.Context, om *OperationMetrics, url string) {
	resp, latency, err := s.get(ctx, url)
	if ctx.Err() != nil {
		// cut off by the end of the run
		if resp != nil {
			resp.Body.Close()
		}
		return
	}
	om.Record(latency, classify(resp, err))
	if resp != nil {
		resp.Body.Close()
	}
}

func (s *Simulator) doAvailability(ctx context.Context, url string) {
	resp, latency, err := s.get(ctx, url)
	if ctx.Err() != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return
	}
	o := classify(resp, err)
	s.metrics.Availability.Record(latency, o)
	if resp == nil {
		return
	}
	defer resp.Body.Close()

	if o == outcomeSuccess {
		var body struct {
			Cached bool `json:"cached"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Cached {
			s.metrics.Availability.RecordCacheHit()
		}
	}
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Availability", &s.metrics.Availability)
	printOperationReport("Appointments by day", &s.metrics.Appointments)
	printOperationReport("Weekly stats", &s.metrics.Stats)
	printOperationReport("Overlap check", &s.metrics.Overlaps)
	printOperationReport("Schedule grid", &s.metrics.Schedule)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	notFound := atomic.LoadInt64(&om.NotFound)
	errs := atomic.LoadInt64(&om.Error)
	cached := atomic.LoadInt64(&om.Cached)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if cached > 0 {
		fmt.Printf("  Cache hits: %d (%.1f%% of successes)\n", cached, float64(cached)/float64(success)*100)
	}
	if notFound > 0 {
		fmt.Printf("  Not found: %d (%.1f%%)\n", notFound, float64(notFound)/float64(total)*100)
	}
	if errs > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errs, float64(errs)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
