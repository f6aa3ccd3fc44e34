package main

import (
	"testing"
	"time"

	"github.com/hackgods/doctor-availability/internal/appointment"
)

func TestGenerate_ProducesValidSchedule(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	ds := generate(SeedConfig{Doctors: 8, Patients: 40, DaysBack: 7, DaysFwd: 14, Location: time.UTC}, now)

	if len(ds.Doctors) != 8 || len(ds.Patients) != 40 {
		t.Fatalf("unexpected counts %d doctors %d patients", len(ds.Doctors), len(ds.Patients))
	}

	snap, err := appointment.NewSnapshot(ds.Doctors, ds.Patients, ds.Appointments)
	if err != nil {
		t.Fatalf("generated data rejected: %v", err)
	}
	svc := appointment.NewService(snap)

	for _, doc := range ds.Doctors {
		appts := svc.SortByStartTime(svc.ByDoctor(doc.ID))
		for i, a := range appts {
			if i > 0 && appointment.CheckOverlap(appts[i-1], a) {
				t.Fatalf("doctor %s has overlapping appointments at %s", doc.ID, a.StartTime)
			}
			hours, ok := doc.WorkingHours.For(a.StartTime.Weekday())
			if !ok {
				t.Fatalf("appointment on a day off: %s", a.StartTime)
			}
			if a.StartTime.Before(hours.Start.On(a.StartTime)) || a.EndTime.After(hours.End.On(a.StartTime)) {
				t.Fatalf("appointment %s-%s outside working hours %s-%s", a.StartTime, a.EndTime, hours.Start, hours.End)
			}
			if _, ok := svc.Populate(a); !ok {
				t.Fatalf("appointment %s does not resolve", a.ID)
			}
			past := a.StartTime.Before(now)
			future := a.Status == appointment.StatusScheduled || a.Status == appointment.StatusConfirmed
			if past == future {
				t.Fatalf("status %s does not fit start %s", a.Status, a.StartTime)
			}
		}
	}
}

func TestGenerate_NoPatientsNoAppointments(t *testing.T) {
	ds := generate(SeedConfig{Doctors: 2, Location: time.UTC}, time.Now())
	if len(ds.Appointments) != 0 {
		t.Fatalf("expected no appointments without patients, got %d", len(ds.Appointments))
	}
}
