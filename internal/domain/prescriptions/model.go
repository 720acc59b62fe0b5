package prescriptions

import (
	"encoding/json"
	"strings"
)

// Prescription is the backend prescription record. DoctorID and
// AppointmentDate are filled from the linked appointment on reads.
type Prescription struct {
	ID              int    `json:"prId"`
	AppointmentID   int    `json:"apId,omitempty"`
	PatientID       int    `json:"pId,omitempty"`
	Medicine        string `json:"medicine"`
	Advice          string `json:"advice"`
	Remark          string `json:"remark"`
	DoctorID        int    `json:"drId,omitempty"`
	AppointmentDate string `json:"appointmentDate,omitempty"`
}

// UnmarshalJSON also reads P_ID and id.
func (p *Prescription) UnmarshalJSON(b []byte) error {
	type plain Prescription
	var aux struct {
		plain
		LegacyPatientID int `json:"P_ID"`
		LegacyID        int `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Prescription(aux.plain)
	if p.PatientID == 0 {
		p.PatientID = aux.LegacyPatientID
	}
	if p.ID == 0 {
		p.ID = aux.LegacyID
	}
	if len(p.AppointmentDate) > 10 {
		p.AppointmentDate = p.AppointmentDate[:10]
	}
	return nil
}

// Draft is what a doctor writes. PatientID may be left zero; the backend
// derives it from the appointment.
type Draft struct {
	AppointmentID int    `json:"apId"`
	PatientID     int    `json:"pId,omitempty"`
	Medicine      string `json:"medicine"`
	Advice        string `json:"advice"`
	Remark        string `json:"remark"`
	SendEmail     bool   `json:"sendEmail,omitempty"`
}

func (d *Draft) trim() {
	d.Medicine = strings.TrimSpace(d.Medicine)
	d.Advice = strings.TrimSpace(d.Advice)
	d.Remark = strings.TrimSpace(d.Remark)
}

// Saved is a stored prescription plus a warning when a follow-up step
// such as the e-mail failed.
type Saved struct {
	Prescription
	Warning string `json:"warning,omitempty"`
}
