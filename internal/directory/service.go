// Package directory owns member records: registration, partial updates,
// deletion guarded by the membership status rules, name search, and
// fingerprint identification.
package directory

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/forgefit/forgefit/internal/fingerprint"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/qr"
	"github.com/forgefit/forgefit/internal/store"
)

// ActiveMembershipError blocks deleting a member whose current
// membership ends today or later.
type ActiveMembershipError struct {
	EndDate time.Time
}

func (e *ActiveMembershipError) Error() string {
	return fmt.Sprintf("member has an active membership until %s", e.EndDate.Format("2006-01-02"))
}

type Service struct {
	members   *store.MemberStore
	lifecycle *membership.Service
	matcher   fingerprint.Matcher
	logger    *slog.Logger

	// Now is the clock used for "today"; tests pin it.
	Now func() time.Time
}

func NewService(members *store.MemberStore, lifecycle *membership.Service, matcher fingerprint.Matcher, logger *slog.Logger) *Service {
	return &Service{
		members:   members,
		lifecycle: lifecycle,
		matcher:   matcher,
		logger:    logger,
		Now:       time.Now,
	}
}

// Create registers a member without a membership. A fingerprint already
// enrolled for another member rejects the write.
func (s *Service) Create(firstName, paternalName, maternalName string, photo, fp []byte) (*model.Member, error) {
	m, err := s.members.Create(firstName, paternalName, maternalName, photo, fp)
	if err != nil {
		return nil, err
	}
	s.logger.Info("member created", "member_id", m.ID)
	return m, nil
}

// RegisterWithMembership registers a member and their first membership
// atomically: the member row, its QR credential, and the membership row
// all commit together or not at all.
func (s *Service) RegisterWithMembership(
	firstName, paternalName, maternalName string,
	photo, fp []byte,
	planID int64, startDate time.Time,
) (*model.Member, *model.Membership, error) {
	today := s.Now()
	if dateBefore(startDate, today) {
		return nil, nil, membership.ErrStartDateInPast
	}

	_, endDate, err := s.lifecycle.Term(planID, startDate)
	if err != nil {
		return nil, nil, err
	}

	m, ms, err := s.members.CreateWithMembership(
		firstName, paternalName, maternalName, photo, fp,
		planID, startDate, endDate, qr.EncodePNG,
	)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("member registered", "member_id", m.ID, "plan_id", planID, "end_date", ms.EndDate.Format("2006-01-02"))
	return m, ms, nil
}

// Update applies a partial update. The photo and fingerprint parameters
// distinguish omitted (nil pointer: keep) from explicitly empty
// (pointer to empty slice: clear stored blob).
func (s *Service) Update(id int64, firstName, paternalName, maternalName string, photo, fp *[]byte) error {
	existing, err := s.members.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return membership.ErrMemberNotFound
	}
	return s.members.Update(id, firstName, paternalName, maternalName, photo, fp)
}

// Delete removes a member. It is refused while the current membership
// ends today or in the future; only expired or absent memberships
// permit deletion. Memberships cascade with the member row.
func (s *Service) Delete(id int64) error {
	existing, err := s.members.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return membership.ErrMemberNotFound
	}

	current, err := s.lifecycle.Current(id)
	if err != nil {
		return err
	}
	if current != nil {
		if status, _ := membership.Compute(current.EndDate, s.Now()); status != membership.StatusExpired {
			return &ActiveMembershipError{EndDate: current.EndDate}
		}
	}

	if err := s.members.Delete(id); err != nil {
		return err
	}
	s.logger.Info("member deleted", "member_id", id)
	return nil
}

func (s *Service) Get(id int64) (*model.Member, error) {
	return s.members.GetByID(id)
}

func (s *Service) List() ([]model.Member, error) {
	return s.members.List()
}

// FindByName matches the fragment case-insensitively against the
// concatenated full name. Disambiguating multiple hits is the caller's
// problem.
func (s *Service) FindByName(fragment string) ([]model.Member, error) {
	return s.members.SearchByName(fragment)
}

// History returns a member's memberships, newest first.
func (s *Service) History(id int64) ([]model.Membership, error) {
	return s.lifecycle.History(id)
}

// IdentifyByFingerprint scans every enrolled template through the
// one-to-one matcher and returns the first match, or nil when nobody
// matches. Linear in member count; the matcher only compares pairs.
func (s *Service) IdentifyByFingerprint(probe []byte) (*model.Member, error) {
	enrolled, err := s.members.ListFingerprints()
	if err != nil {
		return nil, err
	}
	for _, e := range enrolled {
		ok, err := s.matcher.Match(e.Template, probe)
		if err != nil {
			return nil, fmt.Errorf("match template for member %d: %w", e.MemberID, err)
		}
		if ok {
			return s.members.GetByID(e.MemberID)
		}
	}
	return nil, nil
}

func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Before(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
