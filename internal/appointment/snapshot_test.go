package appointment

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewSnapshot_RejectsInvalidRecords(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	p := Patient{ID: uuid.New()}

	reversed := newAppt(dr, p, on(monday, 10, 0), on(monday, 9, 0), TypeCheckup)
	empty := newAppt(dr, p, on(monday, 10, 0), on(monday, 10, 0), TypeCheckup)
	badType := newAppt(dr, p, on(monday, 11, 0), on(monday, 11, 30), AppointmentType("surgery"))

	tests := []struct {
		name     string
		doctors  []Doctor
		patients []Patient
		appts    []Appointment
		contains string
	}{
		{"end before start", []Doctor{dr}, []Patient{p}, []Appointment{reversed}, "ends at or before"},
		{"zero length", []Doctor{dr}, []Patient{p}, []Appointment{empty}, "ends at or before"},
		{"unknown type", []Doctor{dr}, []Patient{p}, []Appointment{badType}, "unknown type"},
		{"duplicate doctor", []Doctor{dr, dr}, nil, nil, "duplicate doctor"},
		{"duplicate patient", nil, []Patient{p, p}, nil, "duplicate patient"},
		{"duplicate appointment", []Doctor{dr}, []Patient{p}, []Appointment{badType, badType}, "duplicate appointment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := NewSnapshot(tt.doctors, tt.patients, tt.appts)
			if err == nil {
				t.Fatal("expected error")
			}
			if snap != nil {
				t.Fatal("expected nil snapshot on error")
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("expected error to mention %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestNewSnapshot_RejectsInvertedWorkingHours(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	dr.WorkingHours[2] = hours("17:00", "09:00")

	_, err := NewSnapshot([]Doctor{dr}, nil, nil)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "Tuesday") {
		t.Fatalf("expected error to name the weekday, got %v", err)
	}
}

func TestNewSnapshot_ReportsEveryViolation(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	p := Patient{ID: uuid.New()}
	a := newAppt(dr, p, on(monday, 10, 0), on(monday, 9, 0), TypeCheckup)
	b := newAppt(dr, p, on(monday, 11, 0), on(monday, 11, 30), AppointmentType("x"))

	_, err := NewSnapshot([]Doctor{dr}, []Patient{p}, []Appointment{a, b})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, a.ID.String()) || !strings.Contains(msg, b.ID.String()) {
		t.Fatalf("expected both appointments in error, got %v", msg)
	}
}

func TestNewSnapshot_AllowsDanglingReferences(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	ghost := Patient{ID: uuid.New()}
	a := newAppt(dr, ghost, on(monday, 9, 0), on(monday, 9, 30), TypeCheckup)

	if _, err := NewSnapshot([]Doctor{dr}, nil, []Appointment{a}); err != nil {
		t.Fatalf("expected dangling patient reference to be accepted, got %v", err)
	}
}

func TestNewSnapshot_PreservesOrderAndCopies(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	p := Patient{ID: uuid.New()}
	late := newAppt(dr, p, on(monday, 15, 0), on(monday, 15, 30), TypeCheckup)
	early := newAppt(dr, p, on(monday, 9, 0), on(monday, 9, 30), TypeCheckup)
	in := []Appointment{late, early}

	snap, err := NewSnapshot([]Doctor{dr}, []Patient{p}, in)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}
	in[0].Notes = "changed after ingestion"

	got := snap.Appointments()
	if got[0].ID != late.ID || got[1].ID != early.ID {
		t.Fatal("expected input order to be preserved")
	}
	if got[0].Notes != "" {
		t.Fatal("expected snapshot to own a copy of its input")
	}
}

func TestSnapshotVersion(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	dr.WorkingHours[1] = hours("09:00", "17:00")
	p := Patient{ID: uuid.New(), Name: "Pat"}
	a := newAppt(dr, p, on(monday, 9, 0), on(monday, 9, 30), TypeCheckup)

	s1, err := NewSnapshot([]Doctor{dr}, []Patient{p}, []Appointment{a})
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSnapshot([]Doctor{dr}, []Patient{p}, []Appointment{a})
	if err != nil {
		t.Fatal(err)
	}
	if s1.Version() != s2.Version() {
		t.Fatal("expected equal data to yield equal versions")
	}

	moved := a
	moved.EndTime = on(monday, 10, 0)
	s3, err := NewSnapshot([]Doctor{dr}, []Patient{p}, []Appointment{moved})
	if err != nil {
		t.Fatal(err)
	}
	if s3.Version() == s1.Version() {
		t.Fatal("expected a changed appointment to change the version")
	}

	rehoured := dr
	rehoured.WorkingHours[1] = hours("10:00", "17:00")
	s4, err := NewSnapshot([]Doctor{rehoured}, []Patient{p}, []Appointment{a})
	if err != nil {
		t.Fatal(err)
	}
	if s4.Version() == s1.Version() {
		t.Fatal("expected changed working hours to change the version")
	}
}
