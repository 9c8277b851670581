package store

import (
	"testing"
)

func TestMembershipCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPlanStore(db)
	ms := NewMemberStore(db)
	mss := NewMembershipStore(db)

	plan, _ := ps.Create("Mensual", 450, 30)
	member, _ := ms.Create("Juan", "Lopez", "", nil, nil)

	m, err := mss.Create(member.ID, plan.ID, testDate(2024, 1, 15), testDate(2024, 2, 14))
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}
	if !m.StartDate.Equal(testDate(2024, 1, 15)) || !m.EndDate.Equal(testDate(2024, 2, 14)) {
		t.Errorf("dates = %v..%v, want 2024-01-15..2024-02-14", m.StartDate, m.EndDate)
	}
	if m.PlanName != "Mensual" || m.PlanPrice != 450 {
		t.Errorf("joined plan fields = %q/%v", m.PlanName, m.PlanPrice)
	}
}

func TestMembershipCurrentUsesMaxEndDate(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPlanStore(db)
	ms := NewMemberStore(db)
	mss := NewMembershipStore(db)

	annual, _ := ps.Create("Anual", 4500, 360)
	weekly, _ := ps.Create("Semanal", 150, 7)
	member, _ := ms.Create("Juan", "Lopez", "", nil, nil)

	// Same-day renewal: the longer membership is inserted first. The
	// current membership must be the one expiring last, not the row
	// created last.
	if _, err := mss.Create(member.ID, annual.ID, testDate(2024, 1, 1), testDate(2024, 12, 25)); err != nil {
		t.Fatalf("create annual: %v", err)
	}
	if _, err := mss.Create(member.ID, weekly.ID, testDate(2024, 1, 1), testDate(2024, 1, 7)); err != nil {
		t.Fatalf("create weekly: %v", err)
	}

	current, err := mss.CurrentForMember(member.ID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current == nil {
		t.Fatal("expected a current membership")
	}
	if !current.EndDate.Equal(testDate(2024, 12, 25)) {
		t.Errorf("current end = %v, want 2024-12-25", current.EndDate)
	}
}

func TestMembershipCurrentNone(t *testing.T) {
	db := setupTestDB(t)
	ms := NewMemberStore(db)
	mss := NewMembershipStore(db)

	member, _ := ms.Create("Juan", "Lopez", "", nil, nil)

	current, err := mss.CurrentForMember(member.ID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != nil {
		t.Errorf("expected nil current for member without memberships, got %+v", current)
	}
}

func TestMembershipHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPlanStore(db)
	ms := NewMemberStore(db)
	mss := NewMembershipStore(db)

	plan, _ := ps.Create("Mensual", 450, 30)
	member, _ := ms.Create("Juan", "Lopez", "", nil, nil)

	mss.Create(member.ID, plan.ID, testDate(2024, 1, 15), testDate(2024, 2, 14))
	mss.Create(member.ID, plan.ID, testDate(2024, 2, 15), testDate(2024, 3, 14))
	mss.Create(member.ID, plan.ID, testDate(2024, 3, 15), testDate(2024, 4, 14))

	history, err := mss.HistoryForMember(member.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}
	if !history[0].EndDate.Equal(testDate(2024, 4, 14)) {
		t.Errorf("first row end = %v, want newest", history[0].EndDate)
	}
	if !history[2].EndDate.Equal(testDate(2024, 2, 14)) {
		t.Errorf("last row end = %v, want oldest", history[2].EndDate)
	}
}
