package enrollment

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Entitlement is a learner's time-bounded access grant to a course, derived
// from a purchase. EndDate is null for open-ended grants.
type Entitlement struct {
	ID        string    `json:"id"`
	LearnerID string    `json:"learner_id"`
	CourseID  int       `json:"course_id"`
	IsActive  bool      `json:"is_active"`
	StartDate time.Time `json:"start_date"`
	EndDate   null.Time `json:"end_date"`
}

// IsCurrent reports whether the entitlement is usable on the given date:
// is_active and the date falls within [start_date, end_date or +inf].
func (e Entitlement) IsCurrent(on time.Time) bool {
	if !e.IsActive {
		return false
	}
	if on.Before(e.StartDate) {
		return false
	}
	if e.EndDate.Valid && on.After(e.EndDate.Time) {
		return false
	}
	return true
}
