package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/platform/apiclient"
)

// AvailabilityWarning is attached to a Result whose slots could not be
// checked against the doctor's bookings.
const AvailabilityWarning = "Failed to check availability"

var ErrIncompleteSelection = errors.New("doctor and a YYYY-MM-DD date are required")

// SlotSource lists a doctor's appointments on one date.
type SlotSource interface {
	ByDoctorAndDate(ctx context.Context, doctorID int, date string) ([]appointments.Appointment, error)
}

// Result is the slot list computed for one (doctor, date) pair.
type Result struct {
	DoctorID int        `json:"doctorId"`
	Date     string     `json:"date"`
	Slots    []TimeSlot `json:"slots"`
	Warning  string     `json:"warning,omitempty"`
}

// Degraded reports whether availability is unknown and every slot was
// offered.
func (r Result) Degraded() bool { return r.Warning != "" }

type Calculator struct {
	source SlotSource
	grid   Grid
	logger zerolog.Logger
}

func NewCalculator(source SlotSource, logger zerolog.Logger) *Calculator {
	return &Calculator{source: source, grid: ClinicDay, logger: logger}
}

// ComputeSlots generates the day's grid and marks the slots the doctor is
// already booked for. When the bookings cannot be fetched every slot is
// returned available with a Warning and a nil error. A 401 is the one
// fetch failure returned as an error; the session is already gone by then.
func (c *Calculator) ComputeSlots(ctx context.Context, doctorID int, date string) (Result, error) {
	res := Result{DoctorID: doctorID, Date: date}
	if doctorID <= 0 || !appointments.ValidDate(date) {
		return res, ErrIncompleteSelection
	}
	res.Slots = GenerateSlots(c.grid)

	booked, err := c.source.ByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return res, err
		}
		c.logger.Warn().Err(err).
			Int("doctor_id", doctorID).
			Str("date", date).
			Msg("booked slots unavailable, offering full grid")
		res.Warning = AvailabilityWarning
		return res, nil
	}

	res.Slots = FilterBooked(res.Slots, booked)
	return res, nil
}
