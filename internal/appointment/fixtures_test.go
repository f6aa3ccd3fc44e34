package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func on(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func hours(start, end string) *DayHours {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return &DayHours{Start: s, End: e}
}

func newDoctor(name, specialty string) Doctor {
	return Doctor{ID: uuid.New(), Name: name, Specialty: specialty}
}

func newAppt(doctor Doctor, patient Patient, start, end time.Time, typ AppointmentType) Appointment {
	return Appointment{
		ID:        uuid.New(),
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		StartTime: start,
		EndTime:   end,
		Type:      typ,
		Status:    StatusScheduled,
	}
}

func mustService(t *testing.T, doctors []Doctor, patients []Patient, appts []Appointment) *Service {
	t.Helper()
	snap, err := NewSnapshot(doctors, patients, appts)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}
	return NewService(snap)
}
