package model

import "time"

// CheckinMethod is how a member identified themselves at the door.
type CheckinMethod string

const (
	CheckinQR          CheckinMethod = "qr"
	CheckinFingerprint CheckinMethod = "fingerprint"
)

// CheckinEvent is one access attempt, allowed or denied.
type CheckinEvent struct {
	ID         int64         `json:"id"`
	MemberID   int64         `json:"member_id"`
	Method     CheckinMethod `json:"method"`
	Allowed    bool          `json:"allowed"`
	RecordedAt time.Time     `json:"recorded_at"`
	MemberName string        `json:"member_name,omitempty"`
}
