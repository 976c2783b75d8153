package domain

import "time"

// Company is an employer profile. Rating is derived from verified reviews and
// recomputed after moderation; it is never written directly by clients.
type Company struct {
	ID          string    `json:"id"           db:"id"`
	Name        string    `json:"name"         db:"name"`
	Description string    `json:"description"  db:"description"`
	Website     string    `json:"website"      db:"website"`
	Industry    string    `json:"industry"     db:"industry"`
	Location    string    `json:"location"     db:"location"`
	LogoURL     string    `json:"logo_url"     db:"logo_url"`
	OwnerUserID *string   `json:"owner_user_id" db:"owner_user_id"`
	Rating      float64   `json:"rating"       db:"rating"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// CompanyPatch carries the updatable fields of a company. Nil means "leave
// unchanged".
type CompanyPatch struct {
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Industry    *string `json:"industry"`
	Location    *string `json:"location"`
	LogoURL     *string `json:"logo_url"`
}
