package membership

import (
	"time"

	"github.com/forgefit/forgefit/internal/model"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpiresToday Status = "expires_today"
	StatusExpired      Status = "expired"
	StatusNone         Status = "none"
)

// RenewalWindowDays is the single canonical threshold shared by the
// "expiring soon" display bucket and the renewal eligibility gate:
// a membership with more than this many days remaining is comfortably
// active and cannot be renewed yet.
const RenewalWindowDays = 7

// Compute maps a membership end date to its status for the given day.
// It is a pure function of the whole-day difference end_date - today.
func Compute(endDate, today time.Time) (Status, int) {
	remaining := daysBetween(today, endDate)
	switch {
	case remaining < 0:
		return StatusExpired, remaining
	case remaining == 0:
		return StatusExpiresToday, remaining
	case remaining <= RenewalWindowDays:
		return StatusExpiringSoon, remaining
	default:
		return StatusActive, remaining
	}
}

// ForCurrent computes the status of a member's current membership.
// A member with no memberships at all is StatusNone, which is distinct
// from StatusExpired even though both render as inactive in list views.
func ForCurrent(current *model.Membership, today time.Time) (Status, int) {
	if current == nil {
		return StatusNone, 0
	}
	return Compute(current.EndDate, today)
}

// Renewable reports whether a member in the given status may renew.
// Only a comfortably active membership blocks renewal.
func Renewable(status Status) bool {
	return status != StatusActive
}

// Covers reports whether the membership grants access on the given day.
func Covers(m *model.Membership, today time.Time) bool {
	if m == nil {
		return false
	}
	return daysBetween(m.StartDate, today) >= 0 && daysBetween(today, m.EndDate) >= 0
}

// daysBetween returns the whole-day difference to - from, ignoring the
// time-of-day component of both.
func daysBetween(from, to time.Time) int {
	from = startOfDay(from)
	to = startOfDay(to)
	return int(to.Sub(from).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
