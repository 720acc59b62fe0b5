// Package booking computes which clinic slots a doctor still has free on a
// given day and binds that computation to a booking form.
package booking

import "time"

// TimeSlot is one bookable position on the clinic grid.
type TimeSlot struct {
	Time      string `json:"time"`    // HH:MM:SS
	Display   string `json:"display"` // 12-hour clock, e.g. "09:00 AM"
	Available bool   `json:"available"`
}

// Grid describes a day of slots as offsets from midnight: [Start, End) in
// steps of Step.
type Grid struct {
	Start time.Duration
	End   time.Duration
	Step  time.Duration
}

// ClinicDay is 09:00 to 17:00 in 30-minute steps.
var ClinicDay = Grid{
	Start: 9 * time.Hour,
	End:   17 * time.Hour,
	Step:  30 * time.Minute,
}

const (
	clockLayout   = "15:04:05"
	displayLayout = "03:04 PM"
)

// GenerateSlots lays out g as available slots in ascending order. An empty
// or inverted grid, or a non-positive step, yields an empty slice.
func GenerateSlots(g Grid) []TimeSlot {
	slots := []TimeSlot{}
	if g.Step <= 0 || g.End <= g.Start {
		return slots
	}
	midnight := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for off := g.Start; off < g.End; off += g.Step {
		t := midnight.Add(off)
		slots = append(slots, TimeSlot{
			Time:      t.Format(clockLayout),
			Display:   t.Format(displayLayout),
			Available: true,
		})
	}
	return slots
}

// DaySlots returns a fresh ClinicDay grid.
func DaySlots() []TimeSlot {
	return GenerateSlots(ClinicDay)
}
