package appointment

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(nil)
	if st.Total != 0 || st.TotalDurationMinutes != 0 || st.AverageDurationMinutes != 0 {
		t.Fatalf("expected zero stats, got %+v", st)
	}
	if st.ByType == nil || st.ByStatus == nil {
		t.Fatal("expected non-nil maps")
	}
}

func TestSummarize(t *testing.T) {
	dr := newDoctor("Dr. A", "Cardiology")
	p := Patient{ID: uuid.New()}
	a := newAppt(dr, p, on(monday, 9, 0), on(monday, 9, 30), TypeCheckup)
	b := newAppt(dr, p, on(monday, 10, 0), on(monday, 11, 0), TypeProcedure)
	b.Status = StatusCompleted
	c := newAppt(dr, p, on(monday, 12, 0), on(monday, 12, 0).Add(90*time.Second), TypeCheckup)

	st := Summarize([]Appointment{a, b, c})
	if st.Total != 3 {
		t.Fatalf("expected 3, got %d", st.Total)
	}
	if st.ByType[TypeCheckup] != 2 || st.ByType[TypeProcedure] != 1 {
		t.Fatalf("unexpected type breakdown %v", st.ByType)
	}
	if st.ByStatus[StatusScheduled] != 2 || st.ByStatus[StatusCompleted] != 1 {
		t.Fatalf("unexpected status breakdown %v", st.ByStatus)
	}
	if st.TotalDurationMinutes != 91.5 {
		t.Fatalf("expected 91.5 total minutes, got %v", st.TotalDurationMinutes)
	}
	if math.Abs(st.AverageDurationMinutes-30.5) > 1e-9 {
		t.Fatalf("expected 30.5 average minutes, got %v", st.AverageDurationMinutes)
	}
}
