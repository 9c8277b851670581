package membership

import (
	"testing"
	"time"

	"github.com/forgefit/forgefit/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeStatusBuckets(t *testing.T) {
	today := date(2024, 6, 15)

	tests := []struct {
		name      string
		endDate   time.Time
		want      Status
		remaining int
	}{
		{"expired yesterday", date(2024, 6, 14), StatusExpired, -1},
		{"expired long ago", date(2023, 1, 1), StatusExpired, -531},
		{"expires today", date(2024, 6, 15), StatusExpiresToday, 0},
		{"one day left", date(2024, 6, 16), StatusExpiringSoon, 1},
		{"seven days left", date(2024, 6, 22), StatusExpiringSoon, 7},
		{"eight days left", date(2024, 6, 23), StatusActive, 8},
		{"far future", date(2025, 6, 15), StatusActive, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, remaining := Compute(tt.endDate, today)
			if status != tt.want {
				t.Errorf("status = %q, want %q", status, tt.want)
			}
			if remaining != tt.remaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.remaining)
			}
		})
	}
}

func TestComputeIgnoresTimeOfDay(t *testing.T) {
	end := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	today := time.Date(2024, 6, 15, 0, 1, 0, 0, time.UTC)

	status, remaining := Compute(end, today)
	if status != StatusExpiresToday {
		t.Errorf("status = %q, want %q", status, StatusExpiresToday)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestForCurrentNoMembership(t *testing.T) {
	status, remaining := ForCurrent(nil, date(2024, 6, 15))
	if status != StatusNone {
		t.Errorf("status = %q, want %q", status, StatusNone)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestForCurrentDelegates(t *testing.T) {
	m := &model.Membership{EndDate: date(2024, 6, 20)}
	status, remaining := ForCurrent(m, date(2024, 6, 15))
	if status != StatusExpiringSoon {
		t.Errorf("status = %q, want %q", status, StatusExpiringSoon)
	}
	if remaining != 5 {
		t.Errorf("remaining = %d, want 5", remaining)
	}
}

func TestRenewable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusExpired, true},
		{StatusExpiresToday, true},
		{StatusExpiringSoon, true},
		{StatusNone, true},
		{StatusActive, false},
	}
	for _, tt := range tests {
		if got := Renewable(tt.status); got != tt.want {
			t.Errorf("Renewable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	m := &model.Membership{StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 30)}

	if !Covers(m, date(2024, 6, 1)) {
		t.Error("start date should be covered")
	}
	if !Covers(m, date(2024, 6, 30)) {
		t.Error("end date should be covered")
	}
	if Covers(m, date(2024, 5, 31)) {
		t.Error("day before start should not be covered")
	}
	if Covers(m, date(2024, 7, 1)) {
		t.Error("day after end should not be covered")
	}
	if Covers(nil, date(2024, 6, 15)) {
		t.Error("nil membership should not be covered")
	}
}
