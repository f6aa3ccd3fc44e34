package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/doctor-availability/internal/appointment"
)

const (
	maxRangeDays   = 92
	maxSlotMinutes = 24 * 60
)

var errBadParam = errors.New("invalid parameter")

func parseDoctorID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id must be a valid UUID", errBadParam)
	}
	return id, nil
}

func parseDate(name, v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required (YYYY-MM-DD)", errBadParam, name)
	}
	d, err := time.ParseInLocation(appointment.DateLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadParam, name)
	}
	return d, nil
}

// parseDateRange reads either ?date= or ?from=&to=. Both ends are inclusive
// calendar dates.
func parseDateRange(r *http.Request, loc *time.Location) (from, to time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("date"); v != "" {
		d, err := parseDate("date", v, loc)
		return d, d, err
	}
	from, err = parseDate("from", q.Get("from"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err = parseDate("to", q.Get("to"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must not be before from", errBadParam)
	}
	if to.After(from.AddDate(0, 0, maxRangeDays)) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range is limited to %d days", errBadParam, maxRangeDays)
	}
	return from, to, nil
}

func parseSlotDuration(r *http.Request) (time.Duration, error) {
	v := r.URL.Query().Get("slot_minutes")
	if v == "" {
		return appointment.DefaultSlotDuration, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxSlotMinutes {
		return 0, fmt.Errorf("%w: slot_minutes must be an integer between 1 and %d", errBadParam, maxSlotMinutes)
	}
	return time.Duration(n) * time.Minute, nil
}

func parseInstant(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required (RFC3339)", errBadParam, name)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", errBadParam, name)
	}
	return t, nil
}
