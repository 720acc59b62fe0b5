package booking

import (
	"testing"
	"time"
)

func TestDaySlots(t *testing.T) {
	slots := DaySlots()
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00:00" || slots[0].Display != "09:00 AM" {
		t.Errorf("unexpected first slot %+v", slots[0])
	}
	if last := slots[len(slots)-1]; last.Time != "16:30:00" || last.Display != "04:30 PM" {
		t.Errorf("unexpected last slot %+v", last)
	}
	for i, s := range slots {
		if !s.Available {
			t.Errorf("slot %d should start available", i)
		}
		if i > 0 && s.Time <= slots[i-1].Time {
			t.Errorf("slots not strictly increasing at %d: %s after %s", i, s.Time, slots[i-1].Time)
		}
	}
}

func TestDaySlots_NoonDisplay(t *testing.T) {
	slots := DaySlots()
	for _, s := range slots {
		if s.Time == "12:00:00" && s.Display != "12:00 PM" {
			t.Errorf("expected 12:00 PM, got %q", s.Display)
		}
		if s.Time == "12:30:00" && s.Display != "12:30 PM" {
			t.Errorf("expected 12:30 PM, got %q", s.Display)
		}
	}
}

func TestDaySlots_Fresh(t *testing.T) {
	a := DaySlots()
	a[0].Available = false
	if b := DaySlots(); !b[0].Available {
		t.Error("DaySlots must not share state between calls")
	}
}

func TestGenerateSlots_Edges(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want int
	}{
		{"end before start", Grid{Start: 17 * time.Hour, End: 9 * time.Hour, Step: 30 * time.Minute}, 0},
		{"end equals start", Grid{Start: 9 * time.Hour, End: 9 * time.Hour, Step: 30 * time.Minute}, 0},
		{"zero step", Grid{Start: 9 * time.Hour, End: 17 * time.Hour}, 0},
		{"negative step", Grid{Start: 9 * time.Hour, End: 17 * time.Hour, Step: -time.Minute}, 0},
		{"uneven tail", Grid{Start: 9 * time.Hour, End: 10*time.Hour + 10*time.Minute, Step: 30 * time.Minute}, 3},
		{"hourly", Grid{Start: 8 * time.Hour, End: 12 * time.Hour, Step: time.Hour}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(tt.grid)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("expected %d slots, got %d", tt.want, len(got))
			}
		})
	}
}
