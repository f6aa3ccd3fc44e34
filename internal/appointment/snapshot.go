package appointment

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

var ErrInvalidRecord = errors.New("invalid record")

// Snapshot is an immutable, validated collection of doctors, patients and
// appointments. Input order is preserved.
type Snapshot struct {
	doctors        []Doctor
	patients       []Patient
	appointments   []Appointment
	doctorIndex    map[uuid.UUID]int
	patientIndex   map[uuid.UUID]int
	appointmentsBy map[uuid.UUID][]int
	version        uint64
}

// NewSnapshot validates and indexes the supplied records. Every violation is
// reported; the returned error wraps ErrInvalidRecord.
func NewSnapshot(doctors []Doctor, patients []Patient, appointments []Appointment) (*Snapshot, error) {
	s := &Snapshot{
		doctors:        slices.Clone(doctors),
		patients:       slices.Clone(patients),
		appointments:   slices.Clone(appointments),
		doctorIndex:    make(map[uuid.UUID]int, len(doctors)),
		patientIndex:   make(map[uuid.UUID]int, len(patients)),
		appointmentsBy: make(map[uuid.UUID][]int),
	}

	var errs []error
	for i, d := range s.doctors {
		if _, dup := s.doctorIndex[d.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate doctor %s", ErrInvalidRecord, d.ID))
			continue
		}
		s.doctorIndex[d.ID] = i
		for wd, h := range d.WorkingHours {
			if h != nil && h.End.Minutes() <= h.Start.Minutes() {
				errs = append(errs, fmt.Errorf("%w: doctor %s working hours on %s end at or before start",
					ErrInvalidRecord, d.ID, time.Weekday(wd)))
			}
		}
	}
	for i, p := range s.patients {
		if _, dup := s.patientIndex[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate patient %s", ErrInvalidRecord, p.ID))
			continue
		}
		s.patientIndex[p.ID] = i
	}

	seen := make(map[uuid.UUID]struct{}, len(appointments))
	for i, a := range s.appointments {
		if _, dup := seen[a.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate appointment %s", ErrInvalidRecord, a.ID))
			continue
		}
		seen[a.ID] = struct{}{}
		if !a.EndTime.After(a.StartTime) {
			errs = append(errs, fmt.Errorf("%w: appointment %s ends at or before its start", ErrInvalidRecord, a.ID))
			continue
		}
		if !a.Type.Valid() {
			errs = append(errs, fmt.Errorf("%w: appointment %s has unknown type %q", ErrInvalidRecord, a.ID, a.Type))
			continue
		}
		s.appointmentsBy[a.DoctorID] = append(s.appointmentsBy[a.DoctorID], i)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s.version = s.fingerprint()
	return s, nil
}

// Version is a content hash of the snapshot. Equal data yields equal versions.
func (s *Snapshot) Version() uint64 {
	return s.version
}

func (s *Snapshot) Doctors() []Doctor {
	return slices.Clone(s.doctors)
}

func (s *Snapshot) Patients() []Patient {
	return slices.Clone(s.patients)
}

func (s *Snapshot) Appointments() []Appointment {
	return slices.Clone(s.appointments)
}

func (s *Snapshot) Doctor(id uuid.UUID) (Doctor, bool) {
	i, ok := s.doctorIndex[id]
	if !ok {
		return Doctor{}, false
	}
	return s.doctors[i], true
}

func (s *Snapshot) Patient(id uuid.UUID) (Patient, bool) {
	i, ok := s.patientIndex[id]
	if !ok {
		return Patient{}, false
	}
	return s.patients[i], true
}

// appointmentsFor returns a fresh slice of the doctor's appointments in input order.
func (s *Snapshot) appointmentsFor(doctorID uuid.UUID) []Appointment {
	idx := s.appointmentsBy[doctorID]
	out := make([]Appointment, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.appointments[i])
	}
	return out
}

func (s *Snapshot) fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	writeStr := func(v string) {
		writeInt(int64(len(v)))
		_, _ = h.WriteString(v)
	}

	for _, d := range s.doctors {
		_, _ = h.Write(d.ID[:])
		writeStr(d.Name)
		writeStr(d.Specialty)
		for _, wh := range d.WorkingHours {
			if wh == nil {
				writeInt(-1)
				continue
			}
			writeInt(int64(wh.Start.Minutes()))
			writeInt(int64(wh.End.Minutes()))
		}
	}
	for _, p := range s.patients {
		_, _ = h.Write(p.ID[:])
		writeStr(p.Name)
	}
	for _, a := range s.appointments {
		_, _ = h.Write(a.ID[:])
		_, _ = h.Write(a.DoctorID[:])
		_, _ = h.Write(a.PatientID[:])
		writeInt(a.StartTime.UnixNano())
		writeInt(a.EndTime.UnixNano())
		writeStr(string(a.Type))
		writeStr(string(a.Status))
	}
	return h.Sum64()
}
