package model

import "time"

// Member is a gym patron. Blob attachments (photo, fingerprint template,
// QR image) are not carried on the struct; list views only need the
// presence flags, and the store exposes dedicated blob getters.
type Member struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	PaternalName   string    `json:"paternal_name"`
	MaternalName   string    `json:"maternal_name,omitempty"`
	HasPhoto       bool      `json:"has_photo"`
	HasFingerprint bool      `json:"has_fingerprint"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName returns the display name with the optional maternal surname.
func (m Member) FullName() string {
	if m.MaternalName == "" {
		return m.FirstName + " " + m.PaternalName
	}
	return m.FirstName + " " + m.PaternalName + " " + m.MaternalName
}
