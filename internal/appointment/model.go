package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	TypeCheckup      AppointmentType = "checkup"
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow-up"
	TypeProcedure    AppointmentType = "procedure"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case TypeCheckup, TypeConsultation, TypeFollowUp, TypeProcedure:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// On returns the instant at this wall-clock time on day's calendar date, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

type DayHours struct {
	Start TimeOfDay
	End   TimeOfDay
}

// WorkingHours is indexed by time.Weekday. A nil entry means the doctor does not work that day.
type WorkingHours [7]*DayHours

func (w WorkingHours) For(day time.Weekday) (DayHours, bool) {
	if day < time.Sunday || day > time.Saturday || w[day] == nil {
		return DayHours{}, false
	}
	return *w[day], true
}

type Doctor struct {
	ID           uuid.UUID
	Name         string
	Specialty    string
	Email        string
	Phone        string
	WorkingHours WorkingHours
}

type Patient struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
}

type Appointment struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Type      AppointmentType
	Status    AppointmentStatus
	Notes     string
}

func (a Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// PopulatedAppointment is an appointment joined with its doctor and patient.
type PopulatedAppointment struct {
	Appointment
	Doctor  Doctor
	Patient Patient
}
