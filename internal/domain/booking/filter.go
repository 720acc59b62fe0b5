package booking

import (
	"strings"
	"time"

	"github.com/hms/portal/internal/domain/appointments"
)

var clockInputs = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM"}

func parseClock(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeTime reduces a clock string ("10:00:00", "10:00", "9:30",
// "02:30 PM") to its HH:MM key. ok is false when s is not a clock time.
func NormalizeTime(s string) (string, bool) {
	t, ok := parseClock(s)
	if !ok {
		return "", false
	}
	return t.Format("15:04"), true
}

// EnsureSeconds renders a clock string as HH:MM:SS, the form the backend
// stores.
func EnsureSeconds(s string) (string, bool) {
	t, ok := parseClock(s)
	if !ok {
		return "", false
	}
	return t.Format(clockLayout), true
}

// FilterBooked returns a copy of slots where a slot is unavailable exactly
// when some booked appointment falls on the same HH:MM. Appointments with an
// unreadable time never match. slots is not modified.
func FilterBooked(slots []TimeSlot, booked []appointments.Appointment) []TimeSlot {
	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if key, ok := NormalizeTime(a.Time); ok {
			taken[key] = struct{}{}
		}
	}

	out := make([]TimeSlot, len(slots))
	for i, s := range slots {
		out[i] = s
		key, ok := NormalizeTime(s.Time)
		_, isTaken := taken[key]
		out[i].Available = !(ok && isTaken)
	}
	return out
}

// find returns the slot whose HH:MM matches clock.
func find(slots []TimeSlot, clock string) (TimeSlot, bool) {
	key, ok := NormalizeTime(clock)
	if !ok {
		return TimeSlot{}, false
	}
	for _, s := range slots {
		if k, _ := NormalizeTime(s.Time); k == key {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// DisplayTime renders a clock string as "02:30 PM". An unreadable s is
// returned as is.
func DisplayTime(s string) string {
	t, ok := parseClock(s)
	if !ok {
		return s
	}
	return t.Format(displayLayout)
}
