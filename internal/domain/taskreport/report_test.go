package taskreport

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday midnight", monday},
		{"monday evening", time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)},
		{"wednesday", time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(monday) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, monday)
			}
		})
	}
}

func TestWeekStartNormalizesZone(t *testing.T) {
	// Sunday 23:00 UTC+5 is Sunday 18:00 UTC, still the previous week.
	zone := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 3, 8, 23, 0, 0, 0, zone)

	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(in); !got.Equal(want) {
		t.Errorf("WeekStart(%v) = %v, want %v", in, got, want)
	}
}
