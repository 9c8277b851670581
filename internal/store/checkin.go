package store

import (
	"database/sql"
	"fmt"

	"github.com/forgefit/forgefit/internal/model"
)

type CheckinStore struct {
	db *sql.DB
}

func NewCheckinStore(db *sql.DB) *CheckinStore {
	return &CheckinStore{db: db}
}

func (s *CheckinStore) Create(memberID int64, method model.CheckinMethod, allowed bool) (*model.CheckinEvent, error) {
	result, err := s.db.Exec(
		`INSERT INTO checkins (member_id, method, allowed) VALUES (?, ?, ?)`,
		memberID, string(method), allowed,
	)
	if err != nil {
		return nil, fmt.Errorf("insert checkin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CheckinStore) GetByID(id int64) (*model.CheckinEvent, error) {
	row := s.db.QueryRow(
		`SELECT c.id, c.member_id, c.method, c.allowed, c.recorded_at,
		        m.first_name || ' ' || m.paternal_name
		 FROM checkins c JOIN members m ON m.id = c.member_id WHERE c.id = ?`, id,
	)
	e, err := scanCheckin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query checkin: %w", err)
	}
	return e, nil
}

// Recent returns the latest check-in events for the front-desk monitor.
func (s *CheckinStore) Recent(limit int) ([]model.CheckinEvent, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.member_id, c.method, c.allowed, c.recorded_at,
		        m.first_name || ' ' || m.paternal_name
		 FROM checkins c JOIN members m ON m.id = c.member_id
		 ORDER BY c.recorded_at DESC, c.id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent checkins: %w", err)
	}
	defer rows.Close()

	var events []model.CheckinEvent
	for rows.Next() {
		e, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanCheckin(scanner interface{ Scan(...any) error }) (*model.CheckinEvent, error) {
	var e model.CheckinEvent
	var method string
	if err := scanner.Scan(&e.ID, &e.MemberID, &method, &e.Allowed, &e.RecordedAt, &e.MemberName); err != nil {
		return nil, err
	}
	e.Method = model.CheckinMethod(method)
	return &e, nil
}
