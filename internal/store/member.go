package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgefit/forgefit/internal/model"
)

// ErrDuplicateFingerprint is returned when a write would enroll a
// fingerprint template already registered to another member. The
// uniqueness is enforced by the database, so of two concurrent
// colliding registrations exactly one succeeds.
var ErrDuplicateFingerprint = errors.New("fingerprint already enrolled for another member")

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, first_name, paternal_name, COALESCE(maternal_name, ''), photo IS NOT NULL, fingerprint IS NOT NULL, created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(
		&m.ID, &m.FirstName, &m.PaternalName, &m.MaternalName,
		&m.HasPhoto, &m.HasFingerprint, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(firstName, paternalName, maternalName string, photo, fingerprint []byte) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO members (first_name, paternal_name, maternal_name, photo, fingerprint) VALUES (?, ?, ?, ?, ?)`,
		firstName, paternalName, nullableText(maternalName), nullableBlob(photo), nullableBlob(fingerprint),
	)
	if err != nil {
		if isFingerprintConflict(err) {
			return nil, ErrDuplicateFingerprint
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// CreateWithMembership registers a member together with their first
// membership in a single transaction: member insert, QR payload
// assignment (the token needs the freshly assigned id, hence the
// callback), and membership insert succeed or fail together. A partial
// failure never leaves an orphaned member behind.
func (s *MemberStore) CreateWithMembership(
	firstName, paternalName, maternalName string,
	photo, fingerprint []byte,
	planID int64, startDate, endDate time.Time,
	qrFor func(memberID int64) ([]byte, error),
) (*model.Member, *model.Membership, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO members (first_name, paternal_name, maternal_name, photo, fingerprint) VALUES (?, ?, ?, ?, ?)`,
		firstName, paternalName, nullableText(maternalName), nullableBlob(photo), nullableBlob(fingerprint),
	)
	if err != nil {
		if isFingerprintConflict(err) {
			return nil, nil, ErrDuplicateFingerprint
		}
		return nil, nil, fmt.Errorf("insert member: %w", err)
	}
	memberID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	qrImage, err := qrFor(memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate qr: %w", err)
	}
	if _, err := tx.Exec(`UPDATE members SET qr_code = ? WHERE id = ?`, qrImage, memberID); err != nil {
		return nil, nil, fmt.Errorf("assign qr: %w", err)
	}

	membershipID, err := insertMembership(tx, memberID, planID, startDate, endDate)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	member, err := s.GetByID(memberID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := NewMembershipStore(s.db).GetByID(membershipID)
	if err != nil {
		return nil, nil, err
	}
	return member, membership, nil
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) List() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members ORDER BY paternal_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// SearchByName finds members whose concatenated full name contains the
// fragment, case-insensitively. A missing maternal surname collapses to
// the empty string so two-part names still match.
func (s *MemberStore) SearchByName(fragment string) ([]model.Member, error) {
	pattern := "%" + strings.TrimSpace(fragment) + "%"
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members
		 WHERE lower(first_name || ' ' || paternal_name || ' ' || COALESCE(maternal_name, '')) LIKE lower(?)
		 ORDER BY paternal_name, first_name`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Update applies a partial update. Names are always written. The blob
// fields distinguish omitted from explicitly empty: a nil pointer
// leaves the stored value alone, a pointer to an empty slice clears it,
// and a pointer to data replaces it.
func (s *MemberStore) Update(id int64, firstName, paternalName, maternalName string, photo, fingerprint *[]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE members SET first_name = ?, paternal_name = ?, maternal_name = ?, updated_at = ? WHERE id = ?`,
		firstName, paternalName, nullableText(maternalName), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	if photo != nil {
		if _, err := tx.Exec(`UPDATE members SET photo = ? WHERE id = ?`, nullableBlob(*photo), id); err != nil {
			return fmt.Errorf("update photo: %w", err)
		}
	}
	if fingerprint != nil {
		if _, err := tx.Exec(`UPDATE members SET fingerprint = ? WHERE id = ?`, nullableBlob(*fingerprint), id); err != nil {
			if isFingerprintConflict(err) {
				return ErrDuplicateFingerprint
			}
			return fmt.Errorf("update fingerprint: %w", err)
		}
	}

	return tx.Commit()
}

// Delete removes the member; memberships and check-ins cascade.
func (s *MemberStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *MemberStore) GetPhoto(id int64) ([]byte, error) {
	return s.getBlob(`SELECT photo FROM members WHERE id = ?`, id)
}

func (s *MemberStore) GetQRCode(id int64) ([]byte, error) {
	return s.getBlob(`SELECT qr_code FROM members WHERE id = ?`, id)
}

func (s *MemberStore) GetFingerprint(id int64) ([]byte, error) {
	return s.getBlob(`SELECT fingerprint FROM members WHERE id = ?`, id)
}

func (s *MemberStore) getBlob(query string, id int64) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRow(query, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query blob: %w", err)
	}
	return blob, nil
}

// EnrolledFingerprint pairs a member id with their stored template, for
// the one-to-one identification scan.
type EnrolledFingerprint struct {
	MemberID int64
	Template []byte
}

func (s *MemberStore) ListFingerprints() ([]EnrolledFingerprint, error) {
	rows, err := s.db.Query(`SELECT id, fingerprint FROM members WHERE fingerprint IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	var enrolled []EnrolledFingerprint
	for rows.Next() {
		var e EnrolledFingerprint
		if err := rows.Scan(&e.MemberID, &e.Template); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		enrolled = append(enrolled, e)
	}
	return enrolled, rows.Err()
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func isFingerprintConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: members.fingerprint")
}
