package reviews

import "math"

// Review is a patient's rating of a doctor.
type Review struct {
	ID          int    `json:"id,omitempty"`
	PatientID   int    `json:"patientId"`
	DoctorID    int    `json:"doctorId"`
	PatientName string `json:"patientName,omitempty"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	ReviewDate  string `json:"reviewDate,omitempty"`
}

// Input is what a patient submits for one completed appointment.
type Input struct {
	AppointmentID int    `json:"appointmentId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// Summary is a doctor's aggregate rating.
type Summary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// Summarize averages list, rounded to one decimal.
func Summarize(list []Review) Summary {
	if len(list) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(list))
	return Summary{AverageRating: math.Round(avg*10) / 10, TotalReviews: len(list)}
}
