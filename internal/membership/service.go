package membership

import (
	"log/slog"
	"time"

	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/store"
)

// Service owns the membership lifecycle: creating a membership at
// registration time and renewing it later. Rows are immutable; both
// paths insert, neither ever updates or deletes an earlier membership.
type Service struct {
	members     *store.MemberStore
	plans       *store.PlanStore
	memberships *store.MembershipStore
	logger      *slog.Logger

	// Now is the clock used for "today"; tests pin it.
	Now func() time.Time
}

func NewService(members *store.MemberStore, plans *store.PlanStore, memberships *store.MembershipStore, logger *slog.Logger) *Service {
	return &Service{
		members:     members,
		plans:       plans,
		memberships: memberships,
		logger:      logger,
		Now:         time.Now,
	}
}

// Term resolves the plan and computes the end date a membership
// starting on startDate would have under it.
func (s *Service) Term(planID int64, startDate time.Time) (*model.Plan, time.Time, error) {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if plan == nil {
		return nil, time.Time{}, ErrPlanNotFound
	}
	end, err := EndDate(startDate, plan.DurationDays)
	if err != nil {
		return nil, time.Time{}, err
	}
	return plan, end, nil
}

// Register creates a membership for an existing member starting on
// startDate. The start date may not lie in the past.
func (s *Service) Register(memberID, planID int64, startDate time.Time) (*model.Membership, error) {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	today := s.Now()
	if daysBetween(today, startDate) < 0 {
		return nil, ErrStartDateInPast
	}

	_, end, err := s.Term(planID, startDate)
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.Create(memberID, planID, startOfDay(startDate), end)
	if err != nil {
		return nil, err
	}
	s.logger.Info("membership registered", "member_id", memberID, "plan_id", planID, "end_date", m.EndDate.Format("2006-01-02"))
	return m, nil
}

// Renew creates a fresh membership starting today. It is rejected while
// the current membership still has more than RenewalWindowDays left;
// the returned error carries the remaining-days count for display.
func (s *Service) Renew(memberID, planID int64) (*model.Membership, error) {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	today := s.Now()
	current, err := s.memberships.CurrentForMember(memberID)
	if err != nil {
		return nil, err
	}
	status, remaining := ForCurrent(current, today)
	if !Renewable(status) {
		return nil, &RenewalNotAllowedError{DaysRemaining: remaining}
	}

	_, end, err := s.Term(planID, today)
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.Create(memberID, planID, startOfDay(today), end)
	if err != nil {
		return nil, err
	}
	s.logger.Info("membership renewed", "member_id", memberID, "plan_id", planID, "end_date", m.EndDate.Format("2006-01-02"))
	return m, nil
}

// Current returns the membership with the maximum end date, or nil.
func (s *Service) Current(memberID int64) (*model.Membership, error) {
	return s.memberships.CurrentForMember(memberID)
}

// History returns every membership of the member, newest first.
func (s *Service) History(memberID int64) ([]model.Membership, error) {
	return s.memberships.HistoryForMember(memberID)
}

// StatusFor computes the member's current status and remaining days.
func (s *Service) StatusFor(memberID int64) (Status, int, error) {
	current, err := s.memberships.CurrentForMember(memberID)
	if err != nil {
		return "", 0, err
	}
	status, remaining := ForCurrent(current, s.Now())
	return status, remaining, nil
}
