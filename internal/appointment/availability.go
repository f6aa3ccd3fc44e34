package appointment

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const DefaultSlotDuration = 30 * time.Minute

// AvailableSlots returns candidate start instants within the doctor's working
// window on day for which [t, t+slotDuration) overlaps none of the doctor's
// appointments starting that day. Candidates are generated every slotDuration
// from the start of the window while t is before the end of the window.
//
// An unknown doctor, or a weekday without working hours, yields no slots.
func (s *Service) AvailableSlots(doctorID uuid.UUID, day time.Time, slotDuration time.Duration) []time.Time {
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}
	doc, ok := s.snap.Doctor(doctorID)
	if !ok {
		return nil
	}
	hours, ok := doc.WorkingHours.For(day.Weekday())
	if !ok {
		return nil
	}

	workStart := hours.Start.On(day)
	workEnd := hours.End.On(day)
	busy := newBusyIndex(s.ByDoctorAndDay(doctorID, day))

	var slots []time.Time
	for t := workStart; t.Before(workEnd); t = t.Add(slotDuration) {
		if !busy.overlaps(Interval{Start: t, End: t.Add(slotDuration)}) {
			slots = append(slots, t)
		}
	}
	return slots
}

// AvailableSlotsInRange runs AvailableSlots for every calendar day from from to
// to inclusive, keyed by YYYY-MM-DD. Days without slots are present with an
// empty slice.
func (s *Service) AvailableSlotsInRange(doctorID uuid.UUID, from, to time.Time, slotDuration time.Duration) map[string][]time.Time {
	out := make(map[string][]time.Time)
	last := StartOfDay(to)
	for day := StartOfDay(from); !day.After(last); day = day.AddDate(0, 0, 1) {
		slots := s.AvailableSlots(doctorID, day, slotDuration)
		if slots == nil {
			slots = []time.Time{}
		}
		out[day.Format(DateLayout)] = slots
	}
	return out
}

// busyIndex answers "does iv overlap any interval" in O(log n) using the
// intervals sorted by start and a running maximum of their ends.
type busyIndex struct {
	starts []time.Time
	maxEnd []time.Time
}

func newBusyIndex(appts []Appointment) busyIndex {
	sorted := SortByStartTime(appts)
	idx := busyIndex{
		starts: make([]time.Time, len(sorted)),
		maxEnd: make([]time.Time, len(sorted)),
	}
	for i, a := range sorted {
		idx.starts[i] = a.StartTime
		idx.maxEnd[i] = a.EndTime
		if i > 0 && idx.maxEnd[i-1].After(a.EndTime) {
			idx.maxEnd[i] = idx.maxEnd[i-1]
		}
	}
	return idx
}

func (b busyIndex) overlaps(iv Interval) bool {
	// Intervals starting before iv.End are the only candidates; among them one
	// overlaps iff the latest end is after iv.Start.
	k := sort.Search(len(b.starts), func(i int) bool {
		return !b.starts[i].Before(iv.End)
	})
	if k == 0 {
		return false
	}
	return b.maxEnd[k-1].After(iv.Start)
}
