// Package voucher assembles the field set of the printable enrollment
// receipt. Rendering (PDF, printer) happens outside the core; this is
// the one place display formatting such as the zero-padded member
// number lives.
package voucher

import (
	"fmt"
	"time"

	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/qr"
)

// Fields is everything the external renderer needs to lay out a voucher.
type Fields struct {
	GymName      string    `json:"gym_name"`
	MemberID     int64     `json:"member_id"`
	MemberNumber string    `json:"member_number"`
	MemberName   string    `json:"member_name"`
	PlanName     string    `json:"plan_name"`
	Price        float64   `json:"price"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	QRToken      string    `json:"qr_token"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Build composes the voucher fields for a member and one of their
// memberships.
func Build(gymName string, member *model.Member, ms *model.Membership, issuedAt time.Time) Fields {
	return Fields{
		GymName:      gymName,
		MemberID:     member.ID,
		MemberNumber: MemberNumber(member.ID),
		MemberName:   member.FullName(),
		PlanName:     ms.PlanName,
		Price:        ms.PlanPrice,
		StartDate:    ms.StartDate,
		EndDate:      ms.EndDate,
		QRToken:      qr.Token(member.ID),
		IssuedAt:     issuedAt,
	}
}

// MemberNumber is the zero-padded display form of a member id.
func MemberNumber(id int64) string {
	return fmt.Sprintf("%05d", id)
}
