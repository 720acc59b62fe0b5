package doctors

import (
	"encoding/json"
	"strings"

	"github.com/hms/portal/internal/domain/appointments"
)

// Doctor is the backend doctor record.
type Doctor struct {
	ID             int    `json:"drId"`
	Name           string `json:"drName"`
	Email          string `json:"emailId"`
	Mobile         string `json:"mobileNo,omitempty"`
	SpecialtyID    int    `json:"spId"`
	Specialization string `json:"specialization,omitempty"`
	Experience     int    `json:"experience,omitempty"`
	Age            int    `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Password       string `json:"password,omitempty"`
}

// UnmarshalJSON also reads the id/name/email/spNo spellings older backend
// builds use.
func (d *Doctor) UnmarshalJSON(b []byte) error {
	type plain Doctor
	var aux struct {
		plain
		LegacyID    int    `json:"id"`
		LegacyName  string `json:"name"`
		LegacyEmail string `json:"email"`
		LegacyPhone string `json:"phone"`
		SpNo        int    `json:"spNo"`
		Specialty   string `json:"specialty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*d = Doctor(aux.plain)
	if d.ID == 0 {
		d.ID = aux.LegacyID
	}
	if d.Name == "" {
		d.Name = aux.LegacyName
	}
	if d.Email == "" {
		d.Email = aux.LegacyEmail
	}
	if d.Mobile == "" {
		d.Mobile = aux.LegacyPhone
	}
	if d.SpecialtyID == 0 {
		d.SpecialtyID = aux.SpNo
	}
	if d.Specialization == "" {
		d.Specialization = aux.Specialty
	}
	return nil
}

// MarshalJSON sends spNo next to spId; backends read one or the other.
func (d Doctor) MarshalJSON() ([]byte, error) {
	type plain Doctor
	return json.Marshal(struct {
		plain
		SpNo int `json:"spNo,omitempty"`
	}{plain(d), d.SpecialtyID})
}

// Label is the selector text "Name - Specialization".
func (d *Doctor) Label() string {
	sp := d.Specialization
	if sp == "" {
		sp = "General Practice"
	}
	return d.Name + " - " + sp
}

// Specialization is one entry of the specialization catalogue.
type Specialization struct {
	ID   int    `json:"spId"`
	Name string `json:"spName"`
}

// DefaultSpecializations is served when the backend catalogue is empty or
// unreachable.
var DefaultSpecializations = []Specialization{
	{ID: 1, Name: "Cardiology"},
	{ID: 2, Name: "Dermatology"},
	{ID: 3, Name: "Neurology"},
	{ID: 4, Name: "Orthopedics"},
	{ID: 5, Name: "Pediatrics"},
	{ID: 6, Name: "Oncology"},
	{ID: 7, Name: "Gynecology"},
}

// Stats is the doctor dashboard summary.
type Stats struct {
	TotalAppointments     int                        `json:"totalAppointments"`
	TodayAppointments     int                        `json:"todayAppointments"`
	PatientCount          int                        `json:"patientCount"`
	TodayAppointmentsList []appointments.Appointment `json:"todayAppointmentsList"`
}

// Filter keeps doctors whose name or e-mail contains query (case-insensitive)
// and, when specialtyID is non-zero, who hold that specialization.
func Filter(list []Doctor, query string, specialtyID int) []Doctor {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Doctor{}
	for _, d := range list {
		if specialtyID != 0 && d.SpecialtyID != specialtyID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Email), q) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Public returns a copy safe to hand to a browser.
func (d Doctor) Public() Doctor {
	d.Password = ""
	return d
}

func publicList(list []Doctor) []Doctor {
	out := make([]Doctor, len(list))
	for i, d := range list {
		out[i] = d.Public()
	}
	return out
}
