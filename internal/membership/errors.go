package membership

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrInvalidPlanDuration = errors.New("plan duration must be at least one day")
	ErrStartDateInPast     = errors.New("start date cannot be before today")
)

// RenewalNotAllowedError is returned when a member tries to renew while
// their current membership is still comfortably active.
type RenewalNotAllowedError struct {
	DaysRemaining int
}

func (e *RenewalNotAllowedError) Error() string {
	return fmt.Sprintf("membership still active with %d days remaining; renewal allowed only within %d days of expiry", e.DaysRemaining, RenewalWindowDays)
}
