package main

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/hackgods/doctor-availability/internal/appointment"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var (
	appointmentTypes = []appointment.AppointmentType{
		appointment.TypeCheckup,
		appointment.TypeConsultation,
		appointment.TypeFollowUp,
		appointment.TypeProcedure,
	}
	pastStatuses = []appointment.AppointmentStatus{
		appointment.StatusCompleted,
		appointment.StatusCompleted,
		appointment.StatusCompleted,
		appointment.StatusCancelled,
		appointment.StatusNoShow,
	}
	futureStatuses = []appointment.AppointmentStatus{
		appointment.StatusScheduled,
		appointment.StatusConfirmed,
	}
	durations = []time.Duration{15 * time.Minute, 30 * time.Minute, 30 * time.Minute, 45 * time.Minute, 60 * time.Minute}
)

type SeedConfig struct {
	Doctors  int
	Patients int
	DaysBack int
	DaysFwd  int
	Location *time.Location
}

type Dataset struct {
	Doctors      []appointment.Doctor
	Patients     []appointment.Patient
	Appointments []appointment.Appointment
}

func pick[T any](items []T) T {
	return items[gofakeit.Number(0, len(items)-1)]
}

func generate(cfg SeedConfig, now time.Time) Dataset {
	var ds Dataset

	for i := 0; i < cfg.Doctors; i++ {
		ds.Doctors = append(ds.Doctors, fakeDoctor())
	}
	for i := 0; i < cfg.Patients; i++ {
		ds.Patients = append(ds.Patients, fakePatient(now))
	}
	if len(ds.Patients) == 0 {
		return ds
	}

	today := appointment.StartOfDay(now.In(cfg.Location))
	for _, doc := range ds.Doctors {
		for offset := -cfg.DaysBack; offset <= cfg.DaysFwd; offset++ {
			day := today.AddDate(0, 0, offset)
			ds.Appointments = append(ds.Appointments, fakeDay(doc, ds.Patients, day, now)...)
		}
	}
	return ds
}

func fakeDoctor() appointment.Doctor {
	d := appointment.Doctor{
		ID:        uuid.New(),
		Name:      "Dr. " + gofakeit.Name(),
		Specialty: pick(specialties),
		Email:     gofakeit.Email(),
		Phone:     gofakeit.Phone(),
	}

	start := gofakeit.Number(7, 10)
	end := start + gofakeit.Number(6, 9)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		// roughly one weekday off in five
		if gofakeit.Number(1, 5) == 1 {
			continue
		}
		d.WorkingHours[wd] = &appointment.DayHours{
			Start: appointment.TimeOfDay{Hour: start},
			End:   appointment.TimeOfDay{Hour: end},
		}
	}
	if gofakeit.Number(1, 4) == 1 {
		d.WorkingHours[time.Saturday] = &appointment.DayHours{
			Start: appointment.TimeOfDay{Hour: 9},
			End:   appointment.TimeOfDay{Hour: 13},
		}
	}
	return d
}

func fakePatient(now time.Time) appointment.Patient {
	dob := gofakeit.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-1, 0, 0))
	dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	return appointment.Patient{
		ID:          uuid.New(),
		Name:        gofakeit.Name(),
		Email:       gofakeit.Email(),
		Phone:       gofakeit.Phone(),
		DateOfBirth: &dob,
	}
}

// fakeDay books non-overlapping appointments inside the doctor's hours on day.
func fakeDay(doc appointment.Doctor, patients []appointment.Patient, day, now time.Time) []appointment.Appointment {
	hours, ok := doc.WorkingHours.For(day.Weekday())
	if !ok {
		return nil
	}

	var out []appointment.Appointment
	t := hours.Start.On(day)
	end := hours.End.On(day)
	for {
		t = t.Add(time.Duration(gofakeit.Number(0, 4)) * 15 * time.Minute)
		dur := pick(durations)
		if t.Add(dur).After(end) {
			break
		}

		status := pick(futureStatuses)
		if t.Before(now) {
			status = pick(pastStatuses)
		}
		a := appointment.Appointment{
			ID:        uuid.New(),
			DoctorID:  doc.ID,
			PatientID: pick(patients).ID,
			StartTime: t,
			EndTime:   t.Add(dur),
			Type:      pick(appointmentTypes),
			Status:    status,
		}
		if gofakeit.Number(1, 3) == 1 {
			a.Notes = gofakeit.Sentence(8)
		}
		out = append(out, a)
		t = t.Add(dur)
	}
	return out
}
