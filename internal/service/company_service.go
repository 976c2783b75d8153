package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// CompanyService implements company CRUD. Mutations are admin-only and gated
// before the service is reached; the service itself enforces data rules only.
type CompanyService struct {
	companies port.CompanyStore
}

// NewCompanyService returns a company service over the given store.
func NewCompanyService(companies port.CompanyStore) *CompanyService {
	return &CompanyService{companies: companies}
}

// Create registers a new company profile. The rating always starts at zero;
// it is derived from verified reviews, never accepted from input.
func (s *CompanyService) Create(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name is required", port.ErrValidation)
	}
	c.Rating = 0
	created, err := s.companies.CreateCompany(ctx, c)
	if err != nil {
		return nil, err
	}
	slog.Info("company created", "company_id", created.ID, "name", created.Name)
	return created, nil
}

// Get returns one company by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.GetCompanyByID(ctx, id)
}

// List returns a page of companies ordered by name.
func (s *CompanyService) List(ctx context.Context, page port.Page) ([]domain.Company, error) {
	return s.companies.ListCompanies(ctx, page)
}

// Update applies a partial update. Nil patch fields leave the stored value
// unchanged; the name, owner, and rating cannot be changed here.
func (s *CompanyService) Update(ctx context.Context, id string, patch domain.CompanyPatch) (*domain.Company, error) {
	company, err := s.companies.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Description != nil {
		company.Description = *patch.Description
	}
	if patch.Website != nil {
		company.Website = *patch.Website
	}
	if patch.Industry != nil {
		company.Industry = *patch.Industry
	}
	if patch.Location != nil {
		company.Location = *patch.Location
	}
	if patch.LogoURL != nil {
		company.LogoURL = *patch.LogoURL
	}
	return s.companies.UpdateCompany(ctx, company)
}

// Delete removes a company and, via the schema's cascades, its reviews and
// salary reports.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if err := s.companies.DeleteCompany(ctx, id); err != nil {
		return err
	}
	slog.Info("company deleted", "company_id", id)
	return nil
}
