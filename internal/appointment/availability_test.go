package appointment

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
)

func morningDoctor() Doctor {
	d := newDoctor("Dr. Morning", "General Practice")
	d.WorkingHours[time.Monday] = hours("09:00", "12:00")
	return d
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format("15:04")
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAvailableSlots_SkipsBookedSlot(t *testing.T) {
	dr := morningDoctor()
	p := Patient{ID: uuid.New()}
	booked := newAppt(dr, p, on(monday, 10, 0), on(monday, 10, 30), TypeCheckup)
	svc := mustService(t, []Doctor{dr}, []Patient{p}, []Appointment{booked})

	got := formatSlots(svc.AvailableSlots(dr.ID, monday, 30*time.Minute))
	want := []string{"09:00", "09:30", "10:30", "11:00", "11:30"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailableSlots_NoAppointments(t *testing.T) {
	dr := morningDoctor()
	svc := mustService(t, []Doctor{dr}, nil, nil)

	got := formatSlots(svc.AvailableSlots(dr.ID, monday, 30*time.Minute))
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailableSlots_DefaultDuration(t *testing.T) {
	dr := morningDoctor()
	svc := mustService(t, []Doctor{dr}, nil, nil)

	if got := svc.AvailableSlots(dr.ID, monday, 0); len(got) != 6 {
		t.Fatalf("expected zero duration to fall back to 30m and yield 6 slots, got %d", len(got))
	}
	if got := svc.AvailableSlots(dr.ID, monday, -time.Minute); len(got) != 6 {
		t.Fatalf("expected negative duration to fall back to 30m and yield 6 slots, got %d", len(got))
	}
}

func TestAvailableSlots_TrailingCandidate(t *testing.T) {
	// 45 minute slots from 09:00: 09:00, 09:45, 10:30, 11:15. The last one
	// starts inside the window even though it runs past 12:00.
	dr := morningDoctor()
	svc := mustService(t, []Doctor{dr}, nil, nil)

	got := formatSlots(svc.AvailableSlots(dr.ID, monday, 45*time.Minute))
	want := []string{"09:00", "09:45", "10:30", "11:15"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailableSlots_NonWorkingDayAndUnknownDoctor(t *testing.T) {
	dr := morningDoctor()
	svc := mustService(t, []Doctor{dr}, nil, nil)

	if got := svc.AvailableSlots(dr.ID, monday.AddDate(0, 0, 1), 30*time.Minute); len(got) != 0 {
		t.Fatalf("expected no slots on tuesday, got %v", got)
	}
	if got := svc.AvailableSlots(uuid.New(), monday, 30*time.Minute); len(got) != 0 {
		t.Fatalf("expected no slots for unknown doctor, got %v", got)
	}
}

func TestAvailableSlots_IgnoresOtherDaysAndDoctors(t *testing.T) {
	dr := morningDoctor()
	other := morningDoctor()
	p := Patient{ID: uuid.New()}
	appts := []Appointment{
		newAppt(other, p, on(monday, 9, 0), on(monday, 12, 0), TypeProcedure),
		newAppt(dr, p, on(monday.AddDate(0, 0, 7), 9, 0), on(monday.AddDate(0, 0, 7), 12, 0), TypeProcedure),
	}
	svc := mustService(t, []Doctor{dr, other}, []Patient{p}, appts)

	if got := svc.AvailableSlots(dr.ID, monday, 30*time.Minute); len(got) != 6 {
		t.Fatalf("expected all 6 slots free, got %d", len(got))
	}
	if got := svc.AvailableSlots(other.ID, monday, 30*time.Minute); len(got) != 0 {
		t.Fatalf("expected a fully booked morning, got %v", formatSlots(got))
	}
}

func TestAvailableSlots_NeverOverlapAppointments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dr := newDoctor("Dr. Random", "Neurology")
	dr.WorkingHours[time.Monday] = hours("08:00", "18:00")
	p := Patient{ID: uuid.New()}

	var appts []Appointment
	for i := 0; i < 12; i++ {
		start := on(monday, 8, 0).Add(time.Duration(rng.Intn(600)) * time.Minute)
		end := start.Add(time.Duration(5+rng.Intn(90)) * time.Minute)
		appts = append(appts, newAppt(dr, p, start, end, TypeConsultation))
	}
	svc := mustService(t, []Doctor{dr}, []Patient{p}, appts)

	for _, d := range []time.Duration{10 * time.Minute, 15 * time.Minute, 30 * time.Minute, 50 * time.Minute} {
		for _, slot := range svc.AvailableSlots(dr.ID, monday, d) {
			iv := Interval{Start: slot, End: slot.Add(d)}
			for _, a := range appts {
				if Overlaps(iv, a.Interval()) {
					t.Fatalf("slot %s (%s) overlaps appointment %s-%s",
						slot.Format("15:04"), d, a.StartTime.Format("15:04"), a.EndTime.Format("15:04"))
				}
			}
		}
	}
}

func TestBusyIndex_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dr := newDoctor("Dr. Busy", "Oncology")
	p := Patient{ID: uuid.New()}

	var appts []Appointment
	for i := 0; i < 40; i++ {
		start := on(monday, 0, 0).Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		end := start.Add(time.Duration(1+rng.Intn(180)) * time.Minute)
		appts = append(appts, newAppt(dr, p, start, end, TypeCheckup))
	}
	idx := newBusyIndex(appts)

	for i := 0; i < 500; i++ {
		start := on(monday, 0, 0).Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		iv := Interval{Start: start, End: start.Add(time.Duration(1+rng.Intn(60)) * time.Minute)}

		want := false
		for _, a := range appts {
			if Overlaps(iv, a.Interval()) {
				want = true
				break
			}
		}
		if got := idx.overlaps(iv); got != want {
			t.Fatalf("interval %s-%s: index says %v, scan says %v",
				iv.Start.Format("15:04"), iv.End.Format("15:04"), got, want)
		}
	}
}

func TestBusyIndex_Empty(t *testing.T) {
	idx := newBusyIndex(nil)
	if idx.overlaps(Interval{Start: on(monday, 9, 0), End: on(monday, 10, 0)}) {
		t.Fatal("expected empty index to report no overlap")
	}
}

func TestAvailableSlotsInRange(t *testing.T) {
	dr := morningDoctor()
	dr.WorkingHours[time.Wednesday] = hours("13:00", "14:00")
	p := Patient{ID: uuid.New()}
	booked := newAppt(dr, p, on(monday, 10, 0), on(monday, 10, 30), TypeCheckup)
	svc := mustService(t, []Doctor{dr}, []Patient{p}, []Appointment{booked})

	got := svc.AvailableSlotsInRange(dr.ID, on(monday, 14, 0), on(monday.AddDate(0, 0, 2), 8, 0), 30*time.Minute)
	if len(got) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got))
	}
	if n := len(got["2026-03-02"]); n != 5 {
		t.Fatalf("expected 5 monday slots, got %d", n)
	}
	tue, ok := got["2026-03-03"]
	if !ok || tue == nil || len(tue) != 0 {
		t.Fatalf("expected tuesday present with an empty slice, got %v (present=%v)", tue, ok)
	}
	if w := formatSlots(got["2026-03-04"]); !equalStrings(w, []string{"13:00", "13:30"}) {
		t.Fatalf("unexpected wednesday slots %v", w)
	}
}
