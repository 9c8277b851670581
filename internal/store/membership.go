package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/forgefit/forgefit/internal/model"
)

type MembershipStore struct {
	db *sql.DB
}

func NewMembershipStore(db *sql.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// Membership dates are stored as YYYY-MM-DD text so comparisons sort
// lexicographically in SQL.
const dateLayout = "2006-01-02"

const membershipCols = `m.id, m.member_id, m.plan_id, m.start_date, m.end_date, p.name, p.price, m.created_at`

func scanMembership(scanner interface{ Scan(...any) error }) (*model.Membership, error) {
	var m model.Membership
	var start, end string
	err := scanner.Scan(&m.ID, &m.MemberID, &m.PlanID, &start, &end, &m.PlanName, &m.PlanPrice, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if m.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	if m.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	return &m, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// insertMembership writes one immutable membership row. It runs against
// either the pool or an open transaction so member registration can
// bundle it with the member insert.
func insertMembership(e execer, memberID, planID int64, startDate, endDate time.Time) (int64, error) {
	result, err := e.Exec(
		`INSERT INTO memberships (member_id, plan_id, start_date, end_date) VALUES (?, ?, ?, ?)`,
		memberID, planID, startDate.Format(dateLayout), endDate.Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (s *MembershipStore) Create(memberID, planID int64, startDate, endDate time.Time) (*model.Membership, error) {
	id, err := insertMembership(s.db, memberID, planID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *MembershipStore) GetByID(id int64) (*model.Membership, error) {
	row := s.db.QueryRow(
		`SELECT `+membershipCols+` FROM memberships m JOIN plans p ON p.id = m.plan_id WHERE m.id = ?`, id,
	)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	return m, nil
}

// HistoryForMember returns every membership of a member, newest first.
func (s *MembershipStore) HistoryForMember(memberID int64) ([]model.Membership, error) {
	rows, err := s.db.Query(
		`SELECT `+membershipCols+` FROM memberships m JOIN plans p ON p.id = m.plan_id
		 WHERE m.member_id = ? ORDER BY m.end_date DESC, m.id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("query membership history: %w", err)
	}
	defer rows.Close()

	var history []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		history = append(history, *m)
	}
	return history, rows.Err()
}

// CurrentForMember returns the membership with the maximum end date.
// Ordering by end date rather than insertion handles same-day renewals:
// the row that expires last wins, not the row created last. Returns nil
// when the member has no memberships.
func (s *MembershipStore) CurrentForMember(memberID int64) (*model.Membership, error) {
	row := s.db.QueryRow(
		`SELECT `+membershipCols+` FROM memberships m JOIN plans p ON p.id = m.plan_id
		 WHERE m.member_id = ? ORDER BY m.end_date DESC, m.id DESC LIMIT 1`,
		memberID,
	)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query current membership: %w", err)
	}
	return m, nil
}
