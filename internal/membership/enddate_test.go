package membership

import (
	"errors"
	"testing"
	"time"
)

func TestEndDateMonthAligned(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     time.Time
	}{
		{"30 days mid-month", date(2024, 1, 15), 30, date(2024, 2, 14)},
		{"60 days", date(2024, 1, 15), 60, date(2024, 3, 14)},
		{"90 days", date(2024, 1, 15), 90, date(2024, 4, 14)},
		{"360 days", date(2024, 1, 15), 360, date(2025, 1, 14)},
		{"30 days from jan 31 clamps to feb", date(2025, 1, 31), 30, date(2025, 2, 27)},
		{"30 days from jan 31 leap year", date(2024, 1, 31), 30, date(2024, 2, 28)},
		{"30 days across year boundary", date(2024, 12, 15), 30, date(2025, 1, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndDate(tt.start, tt.duration)
			if err != nil {
				t.Fatalf("EndDate: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("end = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndDatePlainDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     time.Time
	}{
		{"45 days", date(2024, 1, 1), 45, date(2024, 2, 14)},
		{"7 day trial", date(2024, 1, 1), 7, date(2024, 1, 7)},
		{"15 days", date(2024, 3, 20), 15, date(2024, 4, 3)},
		{"single day pass", date(2024, 1, 1), 1, date(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndDate(tt.start, tt.duration)
			if err != nil {
				t.Fatalf("EndDate: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("end = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndDateInvalidDuration(t *testing.T) {
	for _, duration := range []int{0, -1, -30} {
		if _, err := EndDate(date(2024, 1, 1), duration); !errors.Is(err, ErrInvalidPlanDuration) {
			t.Errorf("duration %d: err = %v, want ErrInvalidPlanDuration", duration, err)
		}
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		start  time.Time
		months int
		want   time.Time
	}{
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 15), 1, date(2024, 2, 15)},
		{date(2024, 10, 31), 2, date(2024, 12, 31)},
		{date(2024, 11, 30), 3, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		if got := addMonthsClamped(tt.start, tt.months); !got.Equal(tt.want) {
			t.Errorf("addMonthsClamped(%v, %d) = %v, want %v", tt.start, tt.months, got, tt.want)
		}
	}
}
