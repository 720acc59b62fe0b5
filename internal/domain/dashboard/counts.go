// Package dashboard assembles the per-role landing pages from the other
// portal resources.
package dashboard

import (
	"time"

	"github.com/hms/portal/internal/domain/appointments"
)

// AgendaSize caps the appointments listed on a dashboard agenda.
const AgendaSize = 3

const agendaWindow = 7 * 24 * time.Hour

// Counts splits appointments around today.
type Counts struct {
	Today    int `json:"today"`
	Upcoming int `json:"upcoming"`
	Past     int `json:"past"`
	Total    int `json:"total"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CountAppointments buckets list by date relative to now and collects an
// agenda of up to AgendaSize appointments that fall today or within the
// next week, in list order. Undated appointments only count toward Total.
func CountAppointments(list []appointments.Appointment, now time.Time) (Counts, []appointments.Appointment) {
	today := startOfDay(now)
	c := Counts{Total: len(list)}
	agenda := []appointments.Appointment{}

	for _, a := range list {
		day, ok := a.Day(now.Location())
		if !ok {
			continue
		}
		switch {
		case day.Equal(today):
			c.Today++
			if len(agenda) < AgendaSize {
				agenda = append(agenda, a)
			}
		case day.After(today):
			c.Upcoming++
			if len(agenda) < AgendaSize && day.Sub(today) < agendaWindow {
				agenda = append(agenda, a)
			}
		default:
			c.Past++
		}
	}
	return c, agenda
}

// Visits finds the most recent appointment before today and the nearest
// one from today on, as YYYY-MM-DD, or "" when there is none.
func Visits(list []appointments.Appointment, now time.Time) (last, next string) {
	today := startOfDay(now)
	var lastDay, nextDay time.Time
	for _, a := range list {
		day, ok := a.Day(now.Location())
		if !ok {
			continue
		}
		if day.Before(today) {
			if last == "" || day.After(lastDay) {
				last, lastDay = day.Format("2006-01-02"), day
			}
			continue
		}
		if next == "" || day.Before(nextDay) {
			next, nextDay = day.Format("2006-01-02"), day
		}
	}
	return last, next
}

// lastN returns the final n items of list, newest (last) first.
func lastN[T any](list []T, n int) []T {
	if len(list) < n {
		n = len(list)
	}
	out := make([]T, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out
}
