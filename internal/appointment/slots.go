package appointment

import "time"

const (
	DateLayout  = "2006-01-02"
	labelLayout = "3:04 PM"
)

// TimeSlot is one cell of the day grid.
type TimeSlot struct {
	Interval
	Label string
}

// GridConfig describes a fixed-cadence grid over a daily window.
type GridConfig struct {
	WindowStart TimeOfDay
	WindowEnd   TimeOfDay
	Stride      time.Duration
}

// DefaultGrid is 08:00-18:00 in 30 minute steps (20 slots).
var DefaultGrid = GridConfig{
	WindowStart: TimeOfDay{Hour: 8},
	WindowEnd:   TimeOfDay{Hour: 18},
	Stride:      30 * time.Minute,
}

// GenerateSlots builds the default grid for day.
func GenerateSlots(day time.Time) []TimeSlot {
	return DefaultGrid.Slots(day)
}

// Slots returns contiguous slots covering the window on day. A trailing slot
// that would run past WindowEnd is not emitted.
func (g GridConfig) Slots(day time.Time) []TimeSlot {
	if g.Stride <= 0 {
		return nil
	}
	start := g.WindowStart.On(day)
	end := g.WindowEnd.On(day)

	var slots []TimeSlot
	for t := start; !t.Add(g.Stride).After(end); t = t.Add(g.Stride) {
		slots = append(slots, TimeSlot{
			Interval: Interval{Start: t, End: t.Add(g.Stride)},
			Label:    t.Format(labelLayout),
		})
	}
	return slots
}

// SlotsForDays maps each day (as YYYY-MM-DD) to its default grid.
func SlotsForDays(days []time.Time) map[string][]TimeSlot {
	out := make(map[string][]TimeSlot, len(days))
	for _, d := range days {
		out[d.Format(DateLayout)] = GenerateSlots(d)
	}
	return out
}

// StartOfDay is midnight of day's calendar date in day's location.
func StartOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location())
}

// EndOfDay is 23:59:59.999 of day's calendar date in day's location.
func EndOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// WeekStart returns Monday 00:00 of the week containing day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return StartOfDay(day).AddDate(0, 0, -offset)
}

// WeekDays returns the seven calendar days starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = StartOfDay(start).AddDate(0, 0, i)
	}
	return days
}
