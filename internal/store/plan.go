package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forgefit/forgefit/internal/model"
)

// ErrPlanInUse is returned when deleting a plan that memberships still
// reference. The delete is denied rather than cascaded.
var ErrPlanInUse = errors.New("plan is referenced by existing memberships")

type PlanStore struct {
	db *sql.DB
}

func NewPlanStore(db *sql.DB) *PlanStore {
	return &PlanStore{db: db}
}

const planCols = `id, name, price, duration_days, created_at, updated_at`

func scanPlan(scanner interface{ Scan(...any) error }) (*model.Plan, error) {
	var p model.Plan
	err := scanner.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlanStore) Create(name string, price float64, durationDays int) (*model.Plan, error) {
	result, err := s.db.Exec(
		`INSERT INTO plans (name, price, duration_days) VALUES (?, ?, ?)`,
		name, price, durationDays,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PlanStore) GetByID(id int64) (*model.Plan, error) {
	row := s.db.QueryRow(`SELECT `+planCols+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	return p, nil
}

func (s *PlanStore) GetByName(name string) (*model.Plan, error) {
	row := s.db.QueryRow(`SELECT `+planCols+` FROM plans WHERE name = ?`, name)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query plan by name: %w", err)
	}
	return p, nil
}

func (s *PlanStore) List() ([]model.Plan, error) {
	rows, err := s.db.Query(`SELECT ` + planCols + ` FROM plans ORDER BY duration_days, name`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (s *PlanStore) Update(id int64, name string, price float64, durationDays int) (*model.Plan, error) {
	_, err := s.db.Exec(
		`UPDATE plans SET name = ?, price = ?, duration_days = ?, updated_at = ? WHERE id = ?`,
		name, price, durationDays, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a plan unless memberships reference it.
func (s *PlanStore) Delete(id int64) error {
	var refs int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM memberships WHERE plan_id = ?`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count plan references: %w", err)
	}
	if refs > 0 {
		return ErrPlanInUse
	}

	if _, err := s.db.Exec(`DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}
