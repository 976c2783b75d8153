package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

const companyColumns = `id, name, description, website, industry, location,
	logo_url, owner_user_id, rating, created_at, updated_at`

func scanCompany(row *sql.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Website, &c.Industry, &c.Location,
		&c.LogoURL, &c.OwnerUserID, &c.Rating, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &c, nil
}

// CreateCompany inserts a new company. A duplicate name surfaces as
// ErrCompanyNameTaken.
func (s *PostgresStore) CreateCompany(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	query := `
		INSERT INTO companies (name, description, website, industry, location, logo_url, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + companyColumns

	created, err := scanCompany(s.db.QueryRowContext(ctx, query,
		c.Name, c.Description, c.Website, c.Industry, c.Location, c.LogoURL, c.OwnerUserID,
	))
	if err != nil {
		if isUniqueViolation(err, "companies_name_key") {
			return nil, port.ErrCompanyNameTaken
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}

// GetCompanyByID retrieves a company by id.
func (s *PostgresStore) GetCompanyByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(s.db.QueryRowContext(ctx, query, id))
}

// ListCompanies returns companies ordered by name.
func (s *PostgresStore) ListCompanies(ctx context.Context, page port.Page) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name ASC OFFSET $1 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Website, &c.Industry, &c.Location,
			&c.LogoURL, &c.OwnerUserID, &c.Rating, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompany writes the mutable fields of a company.
func (s *PostgresStore) UpdateCompany(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	query := `
		UPDATE companies
		SET description = $1, website = $2, industry = $3, location = $4, logo_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + companyColumns

	return scanCompany(s.db.QueryRowContext(ctx, query,
		c.Description, c.Website, c.Industry, c.Location, c.LogoURL, c.ID,
	))
}

// DeleteCompany removes a company; dependent reviews and salaries cascade.
func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrCompanyNotFound
	}
	return nil
}

// SetCompanyRating stores the derived aggregate rating.
func (s *PostgresStore) SetCompanyRating(ctx context.Context, id string, rating float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE companies SET rating = $1, updated_at = NOW() WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("set company rating: %w", err)
	}
	return nil
}
