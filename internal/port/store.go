package port

import (
	"context"
	"time"

	"github.com/iwork-app/iwork-backend/internal/domain"
)

// Page is the validated pagination window applied to list queries.
// Handlers reject out-of-range values before a Page is ever constructed.
type Page struct {
	Skip  int
	Limit int
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}

// SettingsStore persists per-user account settings.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*domain.AccountSettings, error)
	UpsertSettings(ctx context.Context, s *domain.AccountSettings) (*domain.AccountSettings, error)
}

// CompanyStore persists companies.
type CompanyStore interface {
	CreateCompany(ctx context.Context, c *domain.Company) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*domain.Company, error)
	ListCompanies(ctx context.Context, page Page) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, c *domain.Company) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	SetCompanyRating(ctx context.Context, id string, rating float64) error
}

// ReviewStore persists reviews and their moderation trail.
type ReviewStore interface {
	CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error)
	GetReviewByID(ctx context.Context, id string) (*domain.Review, error)
	ListReviewsByCompany(ctx context.Context, companyID string, status domain.ReviewStatus, page Page) ([]domain.Review, error)
	ListReviews(ctx context.Context, status domain.ReviewStatus, page Page) ([]domain.Review, error)
	UpdateReview(ctx context.Context, r *domain.Review) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
	VerifiedRatingAverage(ctx context.Context, companyID string) (float64, error)
	CreateModerationLog(ctx context.Context, l *domain.ModerationLog) error
	ListModerationLogs(ctx context.Context, reviewID string) ([]domain.ModerationLog, error)
}

// SalaryFilter narrows salary queries. Position matches as a case-insensitive
// substring; empty fields match everything.
type SalaryFilter struct {
	CompanyID string
	Position  string
}

// SalaryStore persists salary reports.
type SalaryStore interface {
	CreateSalary(ctx context.Context, s *domain.Salary) (*domain.Salary, error)
	GetSalaryByID(ctx context.Context, id string) (*domain.Salary, error)
	ListSalaries(ctx context.Context, filter SalaryFilter, page Page) ([]domain.Salary, error)
	UpdateSalary(ctx context.Context, s *domain.Salary) (*domain.Salary, error)
	DeleteSalary(ctx context.Context, id string) error
	SalaryAmounts(ctx context.Context, filter SalaryFilter) ([]float64, error)
}

// AuditStore persists and lists request audit records.
type AuditStore interface {
	WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error
	ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error)
}

// SessionCache mirrors refresh tokens, keyed by user id. Implementations are
// best-effort: the auth core treats any error here as a degraded cache, not a
// failure of the operation in flight.
type SessionCache interface {
	SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
}
