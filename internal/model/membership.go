package model

import "time"

// Membership is one immutable purchase/renewal record binding a member
// to a plan for a date range. Renewal inserts a new row; rows are never
// updated. PlanName and PlanPrice are joined from the referenced plan at
// read time, so a later plan price change shows through on re-fetch.
type Membership struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	PlanID    int64     `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	PlanName  string    `json:"plan_name"`
	PlanPrice float64   `json:"plan_price"`
	CreatedAt time.Time `json:"created_at"`
}
