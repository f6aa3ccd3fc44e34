package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-availability/internal/appointment"
	"github.com/hackgods/doctor-availability/internal/config"
	"github.com/hackgods/doctor-availability/internal/db"
	"github.com/hackgods/doctor-availability/internal/logging"
)

const batchSize = 500

func main() {
	logger := logging.New("seed", os.Getenv("APP_ENV"), "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}
	logger = logging.New("seed", cfg.Env, cfg.LogLevel)
	logger.Info().Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	applied, err := db.Migrate(context.Background(), pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	logger.Info().Int("applied", applied).Msg("schema up to date")

	gofakeit.Seed(time.Now().UnixNano())

	ds := generate(SeedConfig{
		Doctors:  getInt("SEED_DOCTORS", 25),
		Patients: getInt("SEED_PATIENTS", 2000),
		DaysBack: getInt("SEED_DAYS_BACK", 14),
		DaysFwd:  getInt("SEED_DAYS_FORWARD", 28),
		Location: cfg.Location,
	}, time.Now())

	// Reject anything the api would refuse to load.
	if _, err := appointment.NewSnapshot(ds.Doctors, ds.Patients, ds.Appointments); err != nil {
		logger.Fatal().Err(err).Msg("generated dataset is invalid")
	}

	if err := seedDoctors(context.Background(), logger, pool, ds.Doctors); err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedPatients(context.Background(), logger, pool, ds.Patients); err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedAppointments(context.Background(), logger, pool, ds.Appointments); err != nil {
		logger.Fatal().Err(err).Msg("seed appointments")
	}

	logger.Info().Msg("seed complete")
}

func seedDoctors(ctx context.Context, logger zerolog.Logger, pool *pgxpool.Pool, doctors []appointment.Doctor) error {
	logger.Info().Int("count", len(doctors)).Msg("seeding doctors")

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, d := range doctors {
			_, err := tx.Exec(ctx, `
				INSERT INTO doctors (id, name, specialty, email, phone, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, clock_timestamp(), clock_timestamp())
			`, d.ID, d.Name, d.Specialty, d.Email, d.Phone)
			if err != nil {
				return err
			}

			for wd, h := range d.WorkingHours {
				if h == nil {
					continue
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO doctor_working_hours (doctor_id, weekday, start_time, end_time)
					VALUES ($1, $2, $3::time, $4::time)
				`, d.ID, wd, h.Start.String(), h.End.String())
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func seedPatients(ctx context.Context, logger zerolog.Logger, pool *pgxpool.Pool, patients []appointment.Patient) error {
	logger.Info().Int("count", len(patients)).Msg("seeding patients")

	for offset := 0; offset < len(patients); offset += batchSize {
		end := min(offset+batchSize, len(patients))

		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			for _, p := range patients[offset:end] {
				_, err := tx.Exec(ctx, `
					INSERT INTO patients (id, name, email, phone, date_of_birth, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, clock_timestamp(), clock_timestamp())
				`, p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info().Int("done", end).Int("total", len(patients)).Msg("patients seeded")
	}
	return nil
}

func seedAppointments(ctx context.Context, logger zerolog.Logger, pool *pgxpool.Pool, appts []appointment.Appointment) error {
	logger.Info().Int("count", len(appts)).Msg("seeding appointments")

	for offset := 0; offset < len(appts); offset += batchSize {
		end := min(offset+batchSize, len(appts))

		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			for _, a := range appts[offset:end] {
				var notes *string
				if a.Notes != "" {
					notes = &a.Notes
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO appointments (id, doctor_id, patient_id, start_time, end_time, type, status, notes, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, clock_timestamp(), clock_timestamp())
				`, a.ID, a.DoctorID, a.PatientID, a.StartTime, a.EndTime, string(a.Type), string(a.Status), notes)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info().Int("done", end).Int("total", len(appts)).Msg("appointments seeded")
	}
	return nil
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
