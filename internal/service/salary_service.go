package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// SalaryService implements salary report CRUD and the aggregate statistics
// endpoint.
type SalaryService struct {
	salaries  port.SalaryStore
	companies port.CompanyStore
	authz     *Authz
}

// NewSalaryService wires the salary service.
func NewSalaryService(salaries port.SalaryStore, companies port.CompanyStore, authz *Authz) *SalaryService {
	return &SalaryService{salaries: salaries, companies: companies, authz: authz}
}

// Create records a new salary report for an existing company.
func (s *SalaryService) Create(ctx context.Context, actor *domain.User, sal *domain.Salary) (*domain.Salary, error) {
	if sal.Amount <= 0 {
		return nil, fmt.Errorf("%w: salary amount must be positive", port.ErrValidation)
	}
	if sal.Position == "" {
		return nil, fmt.Errorf("%w: position is required", port.ErrValidation)
	}
	if _, err := s.companies.GetCompanyByID(ctx, sal.CompanyID); err != nil {
		return nil, err
	}
	sal.UserID = actor.ID
	if sal.Currency == "" {
		sal.Currency = "USD"
	}
	return s.salaries.CreateSalary(ctx, sal)
}

// Get returns one salary report by id.
func (s *SalaryService) Get(ctx context.Context, id string) (*domain.Salary, error) {
	return s.salaries.GetSalaryByID(ctx, id)
}

// ListByCompany returns a page of a company's salary reports, optionally
// narrowed by a case-insensitive position substring. The company must exist.
func (s *SalaryService) ListByCompany(ctx context.Context, companyID, position string, page port.Page) ([]domain.Salary, error) {
	if _, err := s.companies.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	filter := port.SalaryFilter{CompanyID: companyID, Position: position}
	return s.salaries.ListSalaries(ctx, filter, page)
}

// Update applies a reporter edit. Callers without write access get the same
// not-found error as a missing report.
func (s *SalaryService) Update(ctx context.Context, actor *domain.User, id string, patch domain.SalaryPatch) (*domain.Salary, error) {
	sal, err := s.salaries.GetSalaryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.authz.CanMutate(ctx, actor, sal.UserID, sal.CompanyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, port.ErrSalaryNotFound
	}

	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, fmt.Errorf("%w: salary amount must be positive", port.ErrValidation)
		}
		sal.Amount = *patch.Amount
	}
	if patch.Position != nil {
		sal.Position = *patch.Position
	}
	if patch.Currency != nil {
		sal.Currency = *patch.Currency
	}
	if patch.ExperienceYears != nil {
		sal.ExperienceYears = patch.ExperienceYears
	}
	if patch.Location != nil {
		sal.Location = *patch.Location
	}
	return s.salaries.UpdateSalary(ctx, sal)
}

// Delete removes a salary report, with the same ownership rules and
// not-found masking as Update.
func (s *SalaryService) Delete(ctx context.Context, actor *domain.User, id string) error {
	sal, err := s.salaries.GetSalaryByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.authz.CanMutate(ctx, actor, sal.UserID, sal.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return port.ErrSalaryNotFound
	}
	return s.salaries.DeleteSalary(ctx, id)
}

// Statistics aggregates the amounts matching the filter. It returns
// ErrNoSalaryData for an empty set; quartiles are nil when fewer than two
// data points exist.
func (s *SalaryService) Statistics(ctx context.Context, filter port.SalaryFilter) (*domain.SalaryStats, error) {
	amounts, err := s.salaries.SalaryAmounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(amounts) == 0 {
		return nil, port.ErrNoSalaryData
	}

	sort.Float64s(amounts)
	stats := &domain.SalaryStats{
		Count:   len(amounts),
		Average: mean(amounts),
		Median:  median(amounts),
		Min:     amounts[0],
		Max:     amounts[len(amounts)-1],
	}
	if len(amounts) >= 2 {
		q := quartiles(amounts)
		stats.Percentile25 = &q[0]
		stats.Percentile75 = &q[2]
	}
	return stats, nil
}

func mean(sorted []float64) float64 {
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quartiles returns the three quartile cut points of sorted data using the
// exclusive method: each cut point is interpolated between the neighbours of
// position i*(n+1)/4, which may extrapolate past the extremes for small
// samples. Requires len >= 2.
func quartiles(sorted []float64) [3]float64 {
	n := len(sorted)
	var out [3]float64
	for i := 1; i <= 3; i++ {
		m := i * (n + 1)
		j := m / 4
		if j < 1 {
			j = 1
		} else if j > n-1 {
			j = n - 1
		}
		delta := float64(m - j*4)
		out[i-1] = (sorted[j-1]*(4-delta) + sorted[j]*delta) / 4
	}
	return out
}
