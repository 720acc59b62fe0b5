package appointments

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the appointment lifecycle state as stored by the backend.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is a status the backend accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus upper-cases s and validates it.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

const dateLayout = "2006-01-02"

// Appointment is the backend appointment record.
type Appointment struct {
	ID            int    `json:"apId"`
	PatientID     int    `json:"pId"`
	DoctorID      int    `json:"drId"`
	Description   string `json:"descript,omitempty"`
	CancelConfirm int    `json:"cancelConfirm"`
	Date          string `json:"appointmentDate"`
	Time          string `json:"appointmentTime"`
	Status        Status `json:"status"`
	PatientName   string `json:"patientName,omitempty"`
}

// UnmarshalJSON accepts the snake_case and legacy spellings some backend
// builds still emit next to the canonical camelCase fields.
func (a *Appointment) UnmarshalJSON(b []byte) error {
	type plain Appointment
	var aux struct {
		plain
		LegacyID        int    `json:"id"`
		LegacyPatientID int    `json:"P_ID"`
		SnakeDate       string `json:"appointment_date"`
		SnakeTime       string `json:"appointment_time"`
		LegacyDate      string `json:"date"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Appointment(aux.plain)
	if a.ID == 0 {
		a.ID = aux.LegacyID
	}
	if a.PatientID == 0 {
		a.PatientID = aux.LegacyPatientID
	}
	if a.Date == "" {
		a.Date = aux.SnakeDate
	}
	if a.Date == "" {
		a.Date = aux.LegacyDate
	}
	if a.Time == "" {
		a.Time = aux.SnakeTime
	}
	return nil
}

// Day parses the appointment date in loc. Timestamps are cut to their
// date part.
func (a *Appointment) Day(loc *time.Location) (time.Time, bool) {
	d := a.Date
	if len(d) > len(dateLayout) {
		d = d[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, d, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Cancellable reports whether a patient may still cancel the appointment.
func (a *Appointment) Cancellable() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// NewAppointment is the body posted to create a booking.
type NewAppointment struct {
	PatientID   int    `json:"pId"`
	DoctorID    int    `json:"drId"`
	Date        string `json:"appointmentDate"`
	Time        string `json:"appointmentTime"`
	Description string `json:"descript"`
	Status      Status `json:"status"`
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
