package port

import "errors"

// Sentinel errors used across ports. Handlers translate these into HTTP
// statuses in exactly one place.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCompanyNameTaken   = errors.New("company name already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrSalaryNotFound     = errors.New("salary not found")
	ErrNoSalaryData       = errors.New("no salary data found")
	ErrCacheMiss          = errors.New("cache miss")
	ErrValidation         = errors.New("validation failed")
)
