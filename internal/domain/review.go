package domain

import "time"

// ReviewStatus is the moderation lifecycle of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewVerified ReviewStatus = "verified"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewVerified, ReviewRejected:
		return true
	}
	return false
}

// Review is an employer review written by one user about one company.
// New reviews always start in the pending state.
type Review struct {
	ID                string       `json:"id"                  db:"id"`
	CompanyID         string       `json:"company_id"          db:"company_id"`
	UserID            string       `json:"user_id"             db:"user_id"`
	Rating            float64      `json:"rating"              db:"rating"`
	Title             string       `json:"title"               db:"title"`
	Content           string       `json:"content"             db:"content"`
	Pros              string       `json:"pros"                db:"pros"`
	Cons              string       `json:"cons"                db:"cons"`
	IsCurrentEmployee bool         `json:"is_current_employee" db:"is_current_employee"`
	IsAnonymous       bool         `json:"is_anonymous"        db:"is_anonymous"`
	WorkLocation      string       `json:"work_location"       db:"work_location"`
	Status            ReviewStatus `json:"status"              db:"status"`
	CreatedAt         time.Time    `json:"created_at"          db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"          db:"updated_at"`
}

// ReviewPatch carries the author-updatable fields of a review.
type ReviewPatch struct {
	Rating            *float64 `json:"rating"`
	Title             *string  `json:"title"`
	Content           *string  `json:"content"`
	Pros              *string  `json:"pros"`
	Cons              *string  `json:"cons"`
	IsCurrentEmployee *bool    `json:"is_current_employee"`
	IsAnonymous       *bool    `json:"is_anonymous"`
	WorkLocation      *string  `json:"work_location"`
}

// ModerationLog records one moderation decision on a review.
type ModerationLog struct {
	ID          string    `json:"id"            db:"id"`
	ReviewID    string    `json:"review_id"     db:"review_id"`
	ModeratorID string    `json:"moderator_id"  db:"moderator_id"`
	Decision    string    `json:"decision"      db:"decision"`
	Note        string    `json:"note"          db:"note"`
	ModeratedAt time.Time `json:"moderated_at"  db:"moderated_at"`
}
