// Package memory provides map-backed implementations of the store ports.
// They are used by service tests and are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// Store implements every persistence port on in-process maps.
type Store struct {
	mu sync.RWMutex

	users     map[string]domain.User
	settings  map[string]domain.AccountSettings // keyed by user id
	companies map[string]domain.Company
	reviews   map[string]domain.Review
	modLogs   []domain.ModerationLog
	salaries  map[string]domain.Salary
	auditLogs []domain.AuditLog
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		settings:  make(map[string]domain.AccountSettings),
		companies: make(map[string]domain.Company),
		reviews:   make(map[string]domain.Review),
		salaries:  make(map[string]domain.Salary),
	}
}

func page(n int, p port.Page) (int, int) {
	start := p.Skip
	if start > n {
		start = n
	}
	end := start + p.Limit
	if p.Limit <= 0 || end > n {
		end = n
	}
	return start, end
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, port.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return nil, port.ErrUsernameTaken
		}
	}
	stored := *u
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.users[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (s *Store) GetUserByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			out := u
			return &out, nil
		}
	}
	return nil, port.ErrUserNotFound
}

// SetUserRole promotes or demotes an account in place. Role changes have no
// API surface, so tests seed privileged accounts through this helper.
func (s *Store) SetUserRole(userID string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return port.ErrUserNotFound
	}
	u.Role = role
	s.users[userID] = u
	return nil
}

// --- settings ---

func (s *Store) GetSettings(_ context.Context, userID string) (*domain.AccountSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settings[userID]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	out := st
	return &out, nil
}

func (s *Store) UpsertSettings(_ context.Context, settings *domain.AccountSettings) (*domain.AccountSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *settings
	if existing, ok := s.settings[settings.UserID]; ok {
		stored.ID = existing.ID
	} else if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.settings[stored.UserID] = stored
	out := stored
	return &out, nil
}

// --- companies ---

func (s *Store) CreateCompany(_ context.Context, c *domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.companies {
		if strings.EqualFold(existing.Name, c.Name) {
			return nil, port.ErrCompanyNameTaken
		}
	}
	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.companies[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) GetCompanyByID(_ context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, port.ErrCompanyNotFound
	}
	out := c
	return &out, nil
}

func (s *Store) ListCompanies(_ context.Context, p port.Page) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	start, end := page(len(all), p)
	return all[start:end], nil
}

func (s *Store) UpdateCompany(_ context.Context, c *domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[c.ID]; !ok {
		return nil, port.ErrCompanyNotFound
	}
	stored := *c
	stored.UpdatedAt = time.Now().UTC()
	s.companies[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) DeleteCompany(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return port.ErrCompanyNotFound
	}
	delete(s.companies, id)
	return nil
}

func (s *Store) SetCompanyRating(_ context.Context, id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[id]
	if !ok {
		return port.ErrCompanyNotFound
	}
	c.Rating = rating
	c.UpdatedAt = time.Now().UTC()
	s.companies[id] = c
	return nil
}

// --- reviews ---

func (s *Store) CreateReview(_ context.Context, r *domain.Review) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.reviews[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) GetReviewByID(_ context.Context, id string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, port.ErrReviewNotFound
	}
	out := r
	return &out, nil
}

func (s *Store) listReviews(match func(domain.Review) bool, p port.Page) []domain.Review {
	all := make([]domain.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if match(r) {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	start, end := page(len(all), p)
	return all[start:end]
}

func (s *Store) ListReviewsByCompany(_ context.Context, companyID string, status domain.ReviewStatus, p port.Page) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listReviews(func(r domain.Review) bool {
		return r.CompanyID == companyID && (status == "" || r.Status == status)
	}, p), nil
}

func (s *Store) ListReviews(_ context.Context, status domain.ReviewStatus, p port.Page) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listReviews(func(r domain.Review) bool {
		return status == "" || r.Status == status
	}, p), nil
}

func (s *Store) UpdateReview(_ context.Context, r *domain.Review) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[r.ID]; !ok {
		return nil, port.ErrReviewNotFound
	}
	stored := *r
	stored.UpdatedAt = time.Now().UTC()
	s.reviews[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return port.ErrReviewNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *Store) VerifiedRatingAverage(_ context.Context, companyID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	var n int
	for _, r := range s.reviews {
		if r.CompanyID == companyID && r.Status == domain.ReviewVerified {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *Store) CreateModerationLog(_ context.Context, l *domain.ModerationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *l
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.ModeratedAt.IsZero() {
		stored.ModeratedAt = time.Now().UTC()
	}
	s.modLogs = append(s.modLogs, stored)
	return nil
}

func (s *Store) ListModerationLogs(_ context.Context, reviewID string) ([]domain.ModerationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ModerationLog
	for _, l := range s.modLogs {
		if l.ReviewID == reviewID {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- salaries ---

func salaryMatches(sal domain.Salary, f port.SalaryFilter) bool {
	if f.CompanyID != "" && sal.CompanyID != f.CompanyID {
		return false
	}
	if f.Position != "" && !strings.Contains(strings.ToLower(sal.Position), strings.ToLower(f.Position)) {
		return false
	}
	return true
}

func (s *Store) CreateSalary(_ context.Context, sal *domain.Salary) (*domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sal
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.salaries[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) GetSalaryByID(_ context.Context, id string) (*domain.Salary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sal, ok := s.salaries[id]
	if !ok {
		return nil, port.ErrSalaryNotFound
	}
	out := sal
	return &out, nil
}

func (s *Store) ListSalaries(_ context.Context, f port.SalaryFilter, p port.Page) ([]domain.Salary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Salary, 0, len(s.salaries))
	for _, sal := range s.salaries {
		if salaryMatches(sal, f) {
			all = append(all, sal)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	start, end := page(len(all), p)
	return all[start:end], nil
}

func (s *Store) UpdateSalary(_ context.Context, sal *domain.Salary) (*domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salaries[sal.ID]; !ok {
		return nil, port.ErrSalaryNotFound
	}
	stored := *sal
	s.salaries[stored.ID] = stored
	out := stored
	return &out, nil
}

func (s *Store) DeleteSalary(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salaries[id]; !ok {
		return port.ErrSalaryNotFound
	}
	delete(s.salaries, id)
	return nil
}

func (s *Store) SalaryAmounts(_ context.Context, f port.SalaryFilter) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []float64
	for _, sal := range s.salaries {
		if salaryMatches(sal, f) {
			out = append(out, sal.Amount)
		}
	}
	return out, nil
}

// --- audit ---

func (s *Store) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditLogs = append(s.auditLogs, domain.AuditLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int, action string) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AuditLog, 0, len(s.auditLogs))
	for i := len(s.auditLogs) - 1; i >= 0 && len(out) < limit; i-- {
		l := s.auditLogs[i]
		if action == "" || l.Action == action {
			out = append(out, l)
		}
	}
	return out, nil
}

// SessionCache is an in-process refresh token cache with TTL expiry.
type SessionCache struct {
	mu     sync.Mutex
	tokens map[string]cachedToken

	// Fail simulates an unavailable cache when non-nil: every call
	// returns this error.
	Fail error
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// NewSessionCache returns an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{tokens: make(map[string]cachedToken)}
}

func (c *SessionCache) SetRefreshToken(_ context.Context, userID, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Fail != nil {
		return c.Fail
	}
	c.tokens[userID] = cachedToken{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *SessionCache) GetRefreshToken(_ context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Fail != nil {
		return "", c.Fail
	}
	entry, ok := c.tokens[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.tokens, userID)
		return "", port.ErrCacheMiss
	}
	return entry.token, nil
}

func (c *SessionCache) DeleteRefreshToken(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Fail != nil {
		return c.Fail
	}
	delete(c.tokens, userID)
	return nil
}
