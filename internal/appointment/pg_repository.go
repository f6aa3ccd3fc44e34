package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var email, phone *string

	if err := row.Scan(&d.ID, &d.Name, &d.Specialty, &email, &phone); err != nil {
		return nil, err
	}
	if email != nil {
		d.Email = *email
	}
	if phone != nil {
		d.Phone = *phone
	}
	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var email, phone *string
	var dob pgtype.Date

	if err := row.Scan(&p.ID, &p.Name, &email, &phone, &dob); err != nil {
		return nil, err
	}
	if email != nil {
		p.Email = *email
	}
	if phone != nil {
		p.Phone = *phone
	}
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.StartTime,
		&a.EndTime,
		&a.Type,
		&a.Status,
		&notes,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

func timeOfDayFromPg(t pgtype.Time) TimeOfDay {
	mins := int(time.Duration(t.Microseconds) * time.Microsecond / time.Minute)
	return TimeOfDay{Hour: mins / 60, Minute: mins % 60}
}

// Interface methods

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialty, email, phone
		FROM doctors
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []Doctor
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(doctors)
		doctors = append(doctors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hours, err := r.pool.Query(ctx, `
		SELECT doctor_id, weekday, start_time, end_time
		FROM doctor_working_hours
	`)
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	defer hours.Close()

	for hours.Next() {
		var doctorID uuid.UUID
		var weekday int16
		var start, end pgtype.Time
		if err := hours.Scan(&doctorID, &weekday, &start, &end); err != nil {
			return nil, err
		}
		i, ok := index[doctorID]
		if !ok || weekday < 0 || weekday > 6 || !start.Valid || !end.Valid {
			continue
		}
		doctors[i].WorkingHours[weekday] = &DayHours{
			Start: timeOfDayFromPg(start),
			End:   timeOfDayFromPg(end),
		}
	}
	if err := hours.Err(); err != nil {
		return nil, err
	}

	return doctors, nil
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, date_of_birth
		FROM patients
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, start_time, end_time, type, status, notes
		FROM appointments
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
