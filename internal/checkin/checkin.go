// Package checkin decides door access: a scanned QR token or captured
// fingerprint template resolves to a member, the current membership is
// checked against today, and the attempt is recorded either way.
package checkin

import (
	"errors"
	"log/slog"
	"time"

	"github.com/forgefit/forgefit/internal/directory"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/qr"
	"github.com/forgefit/forgefit/internal/store"
)

// ErrNoMatch is returned when a presented fingerprint matches no
// enrolled member.
var ErrNoMatch = errors.New("fingerprint matched no enrolled member")

// Result is the access decision shown on the front-desk monitor.
type Result struct {
	Member        model.Member        `json:"member"`
	Membership    *model.Membership   `json:"membership,omitempty"`
	Status        membership.Status   `json:"status"`
	DaysRemaining int                 `json:"days_remaining"`
	Allowed       bool                `json:"allowed"`
	Method        model.CheckinMethod `json:"method"`
	Event         *model.CheckinEvent `json:"event,omitempty"`
}

type Service struct {
	directory *directory.Service
	lifecycle *membership.Service
	checkins  *store.CheckinStore
	logger    *slog.Logger

	// Now is the clock used for "today"; tests pin it.
	Now func() time.Time
}

func NewService(dir *directory.Service, lifecycle *membership.Service, checkins *store.CheckinStore, logger *slog.Logger) *Service {
	return &Service{
		directory: dir,
		lifecycle: lifecycle,
		checkins:  checkins,
		logger:    logger,
		Now:       time.Now,
	}
}

// ByToken resolves a scanned QR token and decides access.
func (s *Service) ByToken(token string) (*Result, error) {
	memberID, err := qr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	member, err := s.directory.Get(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, membership.ErrMemberNotFound
	}
	return s.decide(member, model.CheckinQR)
}

// ByFingerprint identifies the probe template against all enrolled
// members and decides access for the first match.
func (s *Service) ByFingerprint(probe []byte) (*Result, error) {
	member, err := s.directory.IdentifyByFingerprint(probe)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNoMatch
	}
	return s.decide(member, model.CheckinFingerprint)
}

// decide grants access iff the current membership covers today
// (start <= today <= end), then records the attempt.
func (s *Service) decide(member *model.Member, method model.CheckinMethod) (*Result, error) {
	today := s.Now()
	current, err := s.lifecycle.Current(member.ID)
	if err != nil {
		return nil, err
	}

	status, remaining := membership.ForCurrent(current, today)
	allowed := membership.Covers(current, today)

	event, err := s.checkins.Create(member.ID, method, allowed)
	if err != nil {
		return nil, err
	}
	s.logger.Info("checkin", "member_id", member.ID, "method", method, "allowed", allowed, "status", status)

	return &Result{
		Member:        *member,
		Membership:    current,
		Status:        status,
		DaysRemaining: remaining,
		Allowed:       allowed,
		Method:        method,
		Event:         event,
	}, nil
}

// Recent returns the latest recorded check-in events.
func (s *Service) Recent(limit int) ([]model.CheckinEvent, error) {
	return s.checkins.Recent(limit)
}
