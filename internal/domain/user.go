package domain

import "time"

// Role is the closed set of user roles. Comparison is exact: no role
// inherits another role's permissions.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account. PasswordHash is nil for OAuth-only
// accounts and GoogleID is nil for password accounts; at least one of the two
// is always present.
type User struct {
	ID               string    `json:"id"                 db:"id"`
	Email            string    `json:"email"              db:"email"`
	Username         string    `json:"username"           db:"username"`
	FirstName        string    `json:"first_name"         db:"first_name"`
	LastName         string    `json:"last_name"          db:"last_name"`
	ProfilePicture   string    `json:"profile_picture"    db:"profile_picture"`
	CurrentPosition  string    `json:"current_position"   db:"current_position"`
	CurrentCompanyID *string   `json:"current_company_id" db:"current_company_id"`
	PasswordHash     *string   `json:"-"                  db:"password_hash"` // never serialized to JSON
	GoogleID         *string   `json:"-"                  db:"google_id"`
	Role             Role      `json:"role"               db:"role"`
	IsActive         bool      `json:"is_active"          db:"is_active"`
	IsVerified       bool      `json:"is_verified"        db:"is_verified"`
	CreatedAt        time.Time `json:"created_at"         db:"created_at"`
}

// AccountSettings holds per-user privacy and notification preferences.
// A row is created lazily with defaults on first read.
type AccountSettings struct {
	ID                 string `json:"id"                  db:"id"`
	UserID             string `json:"user_id"             db:"user_id"`
	EmailNotifications bool   `json:"email_notifications" db:"email_notifications"`
	ProfileVisibility  string `json:"profile_visibility"  db:"profile_visibility"` // public | private | anonymous
	DataSharing        bool   `json:"data_sharing"        db:"data_sharing"`
	TwoFactorEnabled   bool   `json:"two_factor_enabled"  db:"two_factor_enabled"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
