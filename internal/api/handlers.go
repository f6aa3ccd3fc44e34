package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-availability/internal/appointment"
	redisclient "github.com/hackgods/doctor-availability/internal/redis"
)

type handlers struct {
	src   SnapshotSource
	cache AvailabilityCache
	loc   *time.Location
	log   zerolog.Logger
}

// doctorFromRequest resolves {id}. On failure the response has been written.
func (h *handlers) doctorFromRequest(w http.ResponseWriter, r *http.Request, svc *appointment.Service) (appointment.Doctor, bool) {
	id, err := parseDoctorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", err.Error())
		return appointment.Doctor{}, false
	}
	doc, ok := svc.DoctorByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor_not_found", appointment.ErrDoctorNotFound.Error())
		return appointment.Doctor{}, false
	}
	return doc, true
}

func (h *handlers) listDoctors(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doctors := svc.AllDoctors()
	if spec := strings.TrimSpace(r.URL.Query().Get("specialty")); spec != "" {
		filtered := doctors[:0]
		for _, d := range doctors {
			if strings.EqualFold(d.Specialty, spec) {
				filtered = append(filtered, d)
			}
		}
		doctors = filtered
	}
	writeJSON(w, http.StatusOK, toDoctorResponses(doctors))
}

func (h *handlers) doctorsBySpecialty(w http.ResponseWriter, r *http.Request) {
	groups := h.src.Service().DoctorsBySpecialty()
	resp := make(map[string][]DoctorResponse, len(groups))
	for spec, doctors := range groups {
		resp[spec] = toDoctorResponses(doctors)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) getDoctor(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.doctorFromRequest(w, r, h.src.Service())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDoctorResponse(doc))
}

func (h *handlers) getPatient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
		return
	}
	p, ok := h.src.Service().PatientByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "patient_not_found", appointment.ErrPatientNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (h *handlers) listAppointments(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doc, ok := h.doctorFromRequest(w, r, svc)
	if !ok {
		return
	}
	from, to, err := parseDateRange(r, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	q := r.URL.Query()
	appts := svc.ByDoctorAndRange(doc.ID, from, to)
	if v := q.Get("type"); v != "" {
		t := appointment.AppointmentType(v)
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_type", "unknown appointment type "+v)
			return
		}
		appts = appointment.ByType(appts, t)
	}
	if v := q.Get("status"); v != "" {
		st := appointment.AppointmentStatus(v)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_status", "unknown appointment status "+v)
			return
		}
		appts = appointment.ByStatus(appts, st)
	}
	appts = svc.SortByStartTime(appts)

	var items []AppointmentResponse
	if q.Get("populate") == "true" {
		items = toPopulatedResponses(svc.PopulateMany(appts), h.loc)
	} else {
		items = toAppointmentResponses(appts, h.loc)
	}

	writeJSON(w, http.StatusOK, AppointmentListResponse{
		DoctorID:     doc.ID,
		From:         from.Format(appointment.DateLayout),
		To:           to.Format(appointment.DateLayout),
		Count:        len(items),
		Appointments: items,
	})
}

func (h *handlers) availability(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doc, ok := h.doctorFromRequest(w, r, svc)
	if !ok {
		return
	}
	dur, err := parseSlotDuration(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_slot_minutes", err.Error())
		return
	}
	from, to, err := parseDateRange(r, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	if r.URL.Query().Get("date") == "" {
		days := svc.AvailableSlotsInRange(doc.ID, from, to, dur)
		resp := AvailabilityRangeResponse{
			DoctorID:    doc.ID,
			From:        from.Format(appointment.DateLayout),
			To:          to.Format(appointment.DateLayout),
			SlotMinutes: int(dur / time.Minute),
			Days:        make(map[string][]string, len(days)),
		}
		for day, slots := range days {
			resp.Days[day] = formatInstants(slots, h.loc)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	date := from.Format(appointment.DateLayout)
	slots, cached := h.cachedAvailability(r, svc, doc.ID, from, dur)
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		DoctorID:    doc.ID,
		Date:        date,
		SlotMinutes: int(dur / time.Minute),
		Slots:       formatInstants(slots, h.loc),
		Cached:      cached,
	})
}

// cachedAvailability reads through the cache when one is configured. Cache
// failures are logged and fall back to computing.
func (h *handlers) cachedAvailability(r *http.Request, svc *appointment.Service, doctorID uuid.UUID, day time.Time, dur time.Duration) ([]time.Time, bool) {
	if h.cache == nil {
		return svc.AvailableSlots(doctorID, day, dur), false
	}

	ctx := r.Context()
	key := redisclient.AvailabilityKey(svc.Snapshot().Version(), doctorID, day.Format(appointment.DateLayout), dur)
	slots, err := h.cache.Get(ctx, key)
	if err == nil {
		return slots, true
	}
	if !errors.Is(err, redisclient.ErrCacheMiss) {
		h.log.Warn().Err(err).Str("request_id", GetRequestID(ctx)).Str("key", key).Msg("availability cache read failed")
	}

	slots = svc.AvailableSlots(doctorID, day, dur)
	if err := h.cache.Set(ctx, key, slots); err != nil {
		h.log.Warn().Err(err).Str("request_id", GetRequestID(ctx)).Str("key", key).Msg("availability cache write failed")
	}
	return slots, false
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doc, ok := h.doctorFromRequest(w, r, svc)
	if !ok {
		return
	}
	from, to, err := parseDateRange(r, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	st := appointment.Summarize(svc.ByDoctorAndRange(doc.ID, from, to))
	resp := StatsResponse{
		DoctorID:               doc.ID,
		From:                   from.Format(appointment.DateLayout),
		To:                     to.Format(appointment.DateLayout),
		Total:                  st.Total,
		ByType:                 make(map[string]int, len(st.ByType)),
		ByStatus:               make(map[string]int, len(st.ByStatus)),
		TotalDurationMinutes:   st.TotalDurationMinutes,
		AverageDurationMinutes: st.AverageDurationMinutes,
	}
	for t, n := range st.ByType {
		resp.ByType[string(t)] = n
	}
	for s, n := range st.ByStatus {
		resp.ByStatus[string(s)] = n
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) overlaps(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doc, ok := h.doctorFromRequest(w, r, svc)
	if !ok {
		return
	}
	q := r.URL.Query()
	start, err := parseInstant("start", q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start", err.Error())
		return
	}
	end, err := parseInstant("end", q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end", err.Error())
		return
	}
	if _, err := appointment.NewInterval(start, end); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_interval", err.Error())
		return
	}

	found := svc.SortByStartTime(appointment.FindOverlapping(svc.ByDoctor(doc.ID), start, end))
	writeJSON(w, http.StatusOK, OverlapsResponse{
		DoctorID:     doc.ID,
		Start:        formatInstant(start, h.loc),
		End:          formatInstant(end, h.loc),
		Conflict:     len(found) > 0,
		Appointments: toAppointmentResponses(found, h.loc),
	})
}

func (h *handlers) schedule(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	doc, ok := h.doctorFromRequest(w, r, svc)
	if !ok {
		return
	}
	day, err := parseDate("date", r.URL.Query().Get("date"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	cells := appointment.SlotOccupancy(day, svc.ByDoctorAndDay(doc.ID, day))
	resp := ScheduleResponse{
		DoctorID: doc.ID,
		Date:     day.Format(appointment.DateLayout),
		Slots:    make([]ScheduleSlotResponse, 0, len(cells)),
	}
	for _, c := range cells {
		resp.Slots = append(resp.Slots, ScheduleSlotResponse{
			TimeSlotResponse: toTimeSlotResponse(c.Slot, h.loc),
			AppointmentIDs:   idsOf(c.Appointments),
			StartingIDs:      idsOf(c.Starting),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) slots(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate("date", r.URL.Query().Get("date"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	grid := appointment.GenerateSlots(day)
	resp := SlotsResponse{
		Date:  day.Format(appointment.DateLayout),
		Slots: make([]TimeSlotResponse, 0, len(grid)),
	}
	for _, s := range grid {
		resp.Slots = append(resp.Slots, toTimeSlotResponse(s, h.loc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) week(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate("date", r.URL.Query().Get("date"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}
	start := appointment.WeekStart(day)
	resp := WeekResponse{
		Date:      day.Format(appointment.DateLayout),
		WeekStart: start.Format(appointment.DateLayout),
	}
	for _, d := range appointment.WeekDays(start) {
		resp.Days = append(resp.Days, d.Format(appointment.DateLayout))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) counts(w http.ResponseWriter, r *http.Request) {
	svc := h.src.Service()
	byDoctor := svc.CountByDoctor()
	resp := CountsResponse{Counts: []DoctorCount{}}
	for _, d := range svc.AllDoctors() {
		resp.Counts = append(resp.Counts, DoctorCount{DoctorID: d.ID, Name: d.Name, Count: byDoctor[d.ID]})
	}
	writeJSON(w, http.StatusOK, resp)
}
