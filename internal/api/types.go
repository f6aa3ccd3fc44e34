package api

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-availability/internal/appointment"
)

type DayHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DoctorResponse struct {
	ID           uuid.UUID                   `json:"id"`
	Name         string                      `json:"name"`
	Specialty    string                      `json:"specialty"`
	Email        string                      `json:"email,omitempty"`
	Phone        string                      `json:"phone,omitempty"`
	WorkingHours map[string]DayHoursResponse `json:"working_hours"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
}

type PartySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AppointmentResponse struct {
	ID              uuid.UUID     `json:"id"`
	DoctorID        uuid.UUID     `json:"doctor_id"`
	PatientID       uuid.UUID     `json:"patient_id"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	Type            string        `json:"type"`
	Status          string        `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	DurationMinutes float64       `json:"duration_minutes"`
	Doctor          *PartySummary `json:"doctor,omitempty"`
	Patient         *PartySummary `json:"patient,omitempty"`
}

type AppointmentListResponse struct {
	DoctorID     uuid.UUID             `json:"doctor_id"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	Count        int                   `json:"count"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type AvailabilityResponse struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        string    `json:"date"`
	SlotMinutes int       `json:"slot_minutes"`
	Slots       []string  `json:"slots"`
	Cached      bool      `json:"cached"`
}

type AvailabilityRangeResponse struct {
	DoctorID    uuid.UUID           `json:"doctor_id"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	SlotMinutes int                 `json:"slot_minutes"`
	Days        map[string][]string `json:"days"`
}

type StatsResponse struct {
	DoctorID               uuid.UUID      `json:"doctor_id"`
	From                   string         `json:"from"`
	To                     string         `json:"to"`
	Total                  int            `json:"total"`
	ByType                 map[string]int `json:"by_type"`
	ByStatus               map[string]int `json:"by_status"`
	TotalDurationMinutes   float64        `json:"total_duration_minutes"`
	AverageDurationMinutes float64        `json:"average_duration_minutes"`
}

type OverlapsResponse struct {
	DoctorID     uuid.UUID             `json:"doctor_id"`
	Start        string                `json:"start"`
	End          string                `json:"end"`
	Conflict     bool                  `json:"conflict"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type TimeSlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type ScheduleSlotResponse struct {
	TimeSlotResponse
	AppointmentIDs []uuid.UUID `json:"appointment_ids"`
	StartingIDs    []uuid.UUID `json:"starting_ids"`
}

type ScheduleResponse struct {
	DoctorID uuid.UUID              `json:"doctor_id"`
	Date     string                 `json:"date"`
	Slots    []ScheduleSlotResponse `json:"slots"`
}

type SlotsResponse struct {
	Date  string             `json:"date"`
	Slots []TimeSlotResponse `json:"slots"`
}

type WeekResponse struct {
	Date      string   `json:"date"`
	WeekStart string   `json:"week_start"`
	Days      []string `json:"days"`
}

type DoctorCount struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Name     string    `json:"name"`
	Count    int       `json:"count"`
}

type CountsResponse struct {
	Counts []DoctorCount `json:"counts"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toDoctorResponse(d appointment.Doctor) DoctorResponse {
	hours := make(map[string]DayHoursResponse)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if h, ok := d.WorkingHours.For(wd); ok {
			hours[strings.ToLower(wd.String())] = DayHoursResponse{Start: h.Start.String(), End: h.End.String()}
		}
	}
	return DoctorResponse{
		ID:           d.ID,
		Name:         d.Name,
		Specialty:    d.Specialty,
		Email:        d.Email,
		Phone:        d.Phone,
		WorkingHours: hours,
	}
}

func toDoctorResponses(doctors []appointment.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorResponse(d))
	}
	return out
}

func toPatientResponse(p appointment.Patient) PatientResponse {
	resp := PatientResponse{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format(appointment.DateLayout)
	}
	return resp
}

func toAppointmentResponse(a appointment.Appointment, loc *time.Location) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		StartTime:       formatInstant(a.StartTime, loc),
		EndTime:         formatInstant(a.EndTime, loc),
		Type:            string(a.Type),
		Status:          string(a.Status),
		Notes:           a.Notes,
		DurationMinutes: appointment.DurationMinutes(a),
	}
}

func toAppointmentResponses(appts []appointment.Appointment, loc *time.Location) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a, loc))
	}
	return out
}

func toPopulatedResponses(appts []appointment.PopulatedAppointment, loc *time.Location) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, p := range appts {
		resp := toAppointmentResponse(p.Appointment, loc)
		resp.Doctor = &PartySummary{ID: p.Doctor.ID, Name: p.Doctor.Name}
		resp.Patient = &PartySummary{ID: p.Patient.ID, Name: p.Patient.Name}
		out = append(out, resp)
	}
	return out
}

func toTimeSlotResponse(s appointment.TimeSlot, loc *time.Location) TimeSlotResponse {
	return TimeSlotResponse{
		Start: formatInstant(s.Start, loc),
		End:   formatInstant(s.End, loc),
		Label: s.Label,
	}
}

func formatInstants(ts []time.Time, loc *time.Location) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, formatInstant(t, loc))
	}
	return out
}

func formatInstant(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

func idsOf(appts []appointment.Appointment) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}
