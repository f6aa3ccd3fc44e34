package appointment

// Stats summarizes a set of appointments. Durations are in minutes.
type Stats struct {
	Total                  int
	ByType                 map[AppointmentType]int
	ByStatus               map[AppointmentStatus]int
	TotalDurationMinutes   float64
	AverageDurationMinutes float64
}

// Summarize computes Stats over appts. The average of an empty set is 0.
func Summarize(appts []Appointment) Stats {
	st := Stats{
		Total:    len(appts),
		ByType:   make(map[AppointmentType]int),
		ByStatus: make(map[AppointmentStatus]int),
	}
	for _, a := range appts {
		st.ByType[a.Type]++
		st.ByStatus[a.Status]++
		st.TotalDurationMinutes += DurationMinutes(a)
	}
	if st.Total > 0 {
		st.AverageDurationMinutes = st.TotalDurationMinutes / float64(st.Total)
	}
	return st
}
