package membership

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/forgefit/forgefit/internal/database"
	"github.com/forgefit/forgefit/internal/store"
)

type serviceFixture struct {
	db      *sql.DB
	members *store.MemberStore
	plans   *store.PlanStore
	svc     *Service
}

func setupService(t *testing.T, today time.Time) *serviceFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	members := store.NewMemberStore(db)
	plans := store.NewPlanStore(db)
	memberships := store.NewMembershipStore(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(members, plans, memberships, logger)
	svc.Now = func() time.Time { return today }

	return &serviceFixture{db: db, members: members, plans: plans, svc: svc}
}

func TestRegisterComputesEndDate(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	m, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 15))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !m.EndDate.Equal(date(2024, 2, 14)) {
		t.Errorf("end date = %v, want 2024-02-14", m.EndDate)
	}
}

func TestRegisterFutureStartDate(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	m, err := f.svc.Register(member.ID, plan.ID, date(2024, 2, 1))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !m.StartDate.Equal(date(2024, 2, 1)) {
		t.Errorf("start date = %v, want 2024-02-01", m.StartDate)
	}
}

func TestRegisterStartDateInPast(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	_, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 14))
	if !errors.Is(err, ErrStartDateInPast) {
		t.Fatalf("err = %v, want ErrStartDateInPast", err)
	}
}

func TestRegisterUnknownMember(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)

	_, err := f.svc.Register(999, plan.ID, date(2024, 1, 15))
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestRegisterUnknownPlan(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	_, err := f.svc.Register(member.ID, 999, date(2024, 1, 15))
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestRenewRejectedWhileActive(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	if _, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 15)); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Ten days in, twenty remain: well outside the renewal window.
	f.svc.Now = func() time.Time { return date(2024, 1, 25) }

	_, err := f.svc.Renew(member.ID, plan.ID)
	var renewErr *RenewalNotAllowedError
	if !errors.As(err, &renewErr) {
		t.Fatalf("err = %v, want RenewalNotAllowedError", err)
	}
	if renewErr.DaysRemaining != 20 {
		t.Errorf("DaysRemaining = %d, want 20", renewErr.DaysRemaining)
	}
}

func TestRenewAllowedInsideWindow(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	if _, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 15)); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Two days before the current membership ends.
	f.svc.Now = func() time.Time { return date(2024, 2, 12) }

	m, err := f.svc.Renew(member.ID, plan.ID)
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if !m.StartDate.Equal(date(2024, 2, 12)) {
		t.Errorf("renewal start = %v, want today", m.StartDate)
	}
	if !m.EndDate.Equal(date(2024, 3, 11)) {
		t.Errorf("renewal end = %v, want 2024-03-11", m.EndDate)
	}

	// The earlier membership survives as history.
	history, err := f.svc.History(member.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 memberships after renewal, got %d", len(history))
	}
	if !history[1].EndDate.Equal(date(2024, 2, 14)) {
		t.Errorf("original membership end = %v, want intact 2024-02-14", history[1].EndDate)
	}
}

func TestRenewWithoutMembership(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	m, err := f.svc.Renew(member.ID, plan.ID)
	if err != nil {
		t.Fatalf("renew without history: %v", err)
	}
	if !m.StartDate.Equal(date(2024, 1, 15)) {
		t.Errorf("start = %v, want today", m.StartDate)
	}
}

func TestRenewExpiredMembership(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	if _, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 15)); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Long after expiry.
	f.svc.Now = func() time.Time { return date(2024, 6, 1) }

	m, err := f.svc.Renew(member.ID, plan.ID)
	if err != nil {
		t.Fatalf("renew expired: %v", err)
	}
	if !m.StartDate.Equal(date(2024, 6, 1)) {
		t.Errorf("start = %v, want today, not stitched to the old end date", m.StartDate)
	}
}

func TestStatusFor(t *testing.T) {
	f := setupService(t, date(2024, 1, 15))
	plan, _ := f.plans.Create("Mensual", 450, 30)
	member, _ := f.members.Create("Juan", "Lopez", "", nil, nil)

	status, remaining, err := f.svc.StatusFor(member.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != StatusNone || remaining != 0 {
		t.Errorf("status = %q/%d, want none/0", status, remaining)
	}

	if _, err := f.svc.Register(member.ID, plan.ID, date(2024, 1, 15)); err != nil {
		t.Fatalf("register: %v", err)
	}

	f.svc.Now = func() time.Time { return date(2024, 2, 10) }
	status, remaining, err = f.svc.StatusFor(member.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != StatusExpiringSoon || remaining != 4 {
		t.Errorf("status = %q/%d, want expiring_soon/4", status, remaining)
	}
}
