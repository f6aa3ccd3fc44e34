package appointment

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Service answers read-only queries over a single Snapshot. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	snap *Snapshot
}

func NewService(snap *Snapshot) *Service {
	return &Service{snap: snap}
}

func (s *Service) Snapshot() *Snapshot {
	return s.snap
}

func (s *Service) AllDoctors() []Doctor {
	return s.snap.Doctors()
}

func (s *Service) DoctorByID(id uuid.UUID) (Doctor, bool) {
	return s.snap.Doctor(id)
}

func (s *Service) AllPatients() []Patient {
	return s.snap.Patients()
}

func (s *Service) PatientByID(id uuid.UUID) (Patient, bool) {
	return s.snap.Patient(id)
}

// DoctorsBySpecialty groups doctors by specialty, preserving input order within a group.
func (s *Service) DoctorsBySpecialty() map[string][]Doctor {
	grouped := make(map[string][]Doctor)
	for _, d := range s.snap.doctors {
		grouped[d.Specialty] = append(grouped[d.Specialty], d)
	}
	return grouped
}

func (s *Service) ByDoctor(doctorID uuid.UUID) []Appointment {
	return s.snap.appointmentsFor(doctorID)
}

// ByDoctorAndDay returns the doctor's appointments whose start falls on day's
// calendar date, in day's location. The end time is not considered.
func (s *Service) ByDoctorAndDay(doctorID uuid.UUID, day time.Time) []Appointment {
	return s.ByDoctorAndRange(doctorID, day, day)
}

// ByDoctorAndRange returns the doctor's appointments whose start falls between
// the first instant of from's date and 23:59:59.999 of to's date, inclusive.
func (s *Service) ByDoctorAndRange(doctorID uuid.UUID, from, to time.Time) []Appointment {
	lo := StartOfDay(from)
	hi := EndOfDay(to)

	var out []Appointment
	for _, a := range s.snap.appointmentsFor(doctorID) {
		if a.StartTime.Before(lo) || a.StartTime.After(hi) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortByStartTime returns a sorted copy. Equal start times keep their relative order.
func SortByStartTime(appts []Appointment) []Appointment {
	out := slices.Clone(appts)
	slices.SortStableFunc(out, func(a, b Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}

func (s *Service) SortByStartTime(appts []Appointment) []Appointment {
	return SortByStartTime(appts)
}

// Populate joins a with its doctor and patient. ok is false if either is missing.
func (s *Service) Populate(a Appointment) (PopulatedAppointment, bool) {
	doc, ok := s.snap.Doctor(a.DoctorID)
	if !ok {
		return PopulatedAppointment{}, false
	}
	pat, ok := s.snap.Patient(a.PatientID)
	if !ok {
		return PopulatedAppointment{}, false
	}
	return PopulatedAppointment{Appointment: a, Doctor: doc, Patient: pat}, true
}

// PopulateMany drops appointments whose doctor or patient cannot be resolved.
func (s *Service) PopulateMany(appts []Appointment) []PopulatedAppointment {
	out := make([]PopulatedAppointment, 0, len(appts))
	for _, a := range appts {
		if p, ok := s.Populate(a); ok {
			out = append(out, p)
		}
	}
	return out
}

func DurationMinutes(a Appointment) float64 {
	return a.Interval().DurationMinutes()
}

func CheckOverlap(a, b Appointment) bool {
	return Overlaps(a.Interval(), b.Interval())
}

// FindOverlapping returns the appointments that overlap [start, end).
func FindOverlapping(appts []Appointment, start, end time.Time) []Appointment {
	window := Interval{Start: start, End: end}
	var out []Appointment
	for _, a := range appts {
		if Overlaps(a.Interval(), window) {
			out = append(out, a)
		}
	}
	return out
}

func ByType(appts []Appointment, t AppointmentType) []Appointment {
	var out []Appointment
	for _, a := range appts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func ByStatus(appts []Appointment, st AppointmentStatus) []Appointment {
	var out []Appointment
	for _, a := range appts {
		if a.Status == st {
			out = append(out, a)
		}
	}
	return out
}

// CountByDoctor counts every appointment in the snapshot per doctor id.
func (s *Service) CountByDoctor() map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(s.snap.appointmentsBy))
	for id, idx := range s.snap.appointmentsBy {
		counts[id] = len(idx)
	}
	return counts
}

// SlotAppointments is one grid cell with the appointments that touch it.
type SlotAppointments struct {
	Slot TimeSlot
	// Appointments overlap the slot, in input order.
	Appointments []Appointment
	// Starting is the subset whose start falls inside the slot.
	Starting []Appointment
}

// SlotOccupancy lays appts over the default grid for day.
func SlotOccupancy(day time.Time, appts []Appointment) []SlotAppointments {
	slots := GenerateSlots(day)
	out := make([]SlotAppointments, 0, len(slots))
	for _, slot := range slots {
		cell := SlotAppointments{Slot: slot}
		for _, a := range appts {
			if !Overlaps(a.Interval(), slot.Interval) {
				continue
			}
			cell.Appointments = append(cell.Appointments, a)
			if slot.Contains(a.StartTime) {
				cell.Starting = append(cell.Starting, a)
			}
		}
		out = append(out, cell)
	}
	return out
}
