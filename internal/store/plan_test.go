package store

import (
	"errors"
	"testing"
)

func TestPlanCreate(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	p, err := ps.Create("Mensual", 450, 30)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if p.Name != "Mensual" || p.Price != 450 || p.DurationDays != 30 {
		t.Errorf("unexpected plan: %+v", p)
	}
}

func TestPlanUniqueName(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	if _, err := ps.Create("Mensual", 450, 30); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := ps.Create("Mensual", 500, 30); err == nil {
		t.Fatal("expected error for duplicate plan name, got nil")
	}
}

func TestPlanGetByName(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	ps.Create("Mensual", 450, 30)

	p, err := ps.GetByName("Mensual")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if p == nil || p.Name != "Mensual" {
		t.Errorf("plan = %+v, want Mensual", p)
	}

	missing, err := ps.GetByName("Anual")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown plan name")
	}
}

func TestPlanList(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	ps.Create("Anual", 4500, 360)
	ps.Create("Semanal", 150, 7)
	ps.Create("Mensual", 450, 30)

	plans, err := ps.List()
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	// Ordered by duration
	if plans[0].Name != "Semanal" || plans[2].Name != "Anual" {
		t.Errorf("unexpected order: %s, %s, %s", plans[0].Name, plans[1].Name, plans[2].Name)
	}
}

func TestPlanUpdate(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	p, _ := ps.Create("Mensual", 450, 30)

	updated, err := ps.Update(p.ID, "Mensual Plus", 550, 30)
	if err != nil {
		t.Fatalf("update plan: %v", err)
	}
	if updated.Name != "Mensual Plus" || updated.Price != 550 {
		t.Errorf("unexpected plan after update: %+v", updated)
	}
}

func TestPlanDeleteUnreferenced(t *testing.T) {
	ps := NewPlanStore(setupTestDB(t))

	p, _ := ps.Create("Mensual", 450, 30)

	if err := ps.Delete(p.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	got, _ := ps.GetByID(p.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestPlanDeleteDeniedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPlanStore(db)
	ms := NewMemberStore(db)
	mss := NewMembershipStore(db)

	p, _ := ps.Create("Mensual", 450, 30)
	member, _ := ms.Create("Juan", "Lopez", "", nil, nil)
	if _, err := mss.Create(member.ID, p.ID, testDate(2024, 1, 15), testDate(2024, 2, 14)); err != nil {
		t.Fatalf("create membership: %v", err)
	}

	err := ps.Delete(p.ID)
	if !errors.Is(err, ErrPlanInUse) {
		t.Fatalf("err = %v, want ErrPlanInUse", err)
	}

	got, _ := ps.GetByID(p.ID)
	if got == nil {
		t.Error("plan should still exist after denied delete")
	}
}
