package appointment

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Repository is the data-access collaborator that supplies the records a
// Snapshot is built from.
type Repository interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListPatients(ctx context.Context) ([]Patient, error)

	// ListAppointments returns appointments in insertion order.
	ListAppointments(ctx context.Context) ([]Appointment, error)
}

// LoadSnapshot reads every record from repo and validates it.
func LoadSnapshot(ctx context.Context, repo Repository) (*Snapshot, error) {
	doctors, err := repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	patients, err := repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	appts, err := repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	snap, err := NewSnapshot(doctors, patients, appts)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}
