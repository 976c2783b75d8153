package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

const salaryColumns = `id, company_id, user_id, position, amount, currency,
	experience_years, location, created_at`

func scanSalaryRow(row *sql.Row) (*domain.Salary, error) {
	var s domain.Salary
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.UserID, &s.Position, &s.Amount, &s.Currency,
		&s.ExperienceYears, &s.Location, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrSalaryNotFound
		}
		return nil, fmt.Errorf("scan salary: %w", err)
	}
	return &s, nil
}

// CreateSalary inserts a salary report.
func (s *PostgresStore) CreateSalary(ctx context.Context, sal *domain.Salary) (*domain.Salary, error) {
	query := `
		INSERT INTO salaries (company_id, user_id, position, amount, currency, experience_years, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + salaryColumns

	return scanSalaryRow(s.db.QueryRowContext(ctx, query,
		sal.CompanyID, sal.UserID, sal.Position, sal.Amount, sal.Currency,
		sal.ExperienceYears, sal.Location,
	))
}

// GetSalaryByID retrieves a salary report by id.
func (s *PostgresStore) GetSalaryByID(ctx context.Context, id string) (*domain.Salary, error) {
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE id = $1`
	return scanSalaryRow(s.db.QueryRowContext(ctx, query, id))
}

// salaryWhere builds the WHERE clause for a salary filter. Position matches
// case-insensitively as a substring, mirroring ILIKE '%…%'.
func salaryWhere(filter port.SalaryFilter) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	if filter.CompanyID != "" {
		clause += fmt.Sprintf(" AND company_id = $%d", len(args)+1)
		args = append(args, filter.CompanyID)
	}
	if filter.Position != "" {
		clause += fmt.Sprintf(" AND position ILIKE $%d", len(args)+1)
		args = append(args, "%"+filter.Position+"%")
	}
	return clause, args
}

// ListSalaries returns salary reports matching the filter, newest first.
func (s *PostgresStore) ListSalaries(ctx context.Context, filter port.SalaryFilter, page port.Page) ([]domain.Salary, error) {
	clause, args := salaryWhere(filter)
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE TRUE` + clause
	query += fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()

	salaries := []domain.Salary{}
	for rows.Next() {
		var sal domain.Salary
		if err := rows.Scan(
			&sal.ID, &sal.CompanyID, &sal.UserID, &sal.Position, &sal.Amount, &sal.Currency,
			&sal.ExperienceYears, &sal.Location, &sal.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan salary: %w", err)
		}
		salaries = append(salaries, sal)
	}
	return salaries, rows.Err()
}

// UpdateSalary writes the mutable fields of a salary report.
func (s *PostgresStore) UpdateSalary(ctx context.Context, sal *domain.Salary) (*domain.Salary, error) {
	query := `
		UPDATE salaries
		SET position = $1, amount = $2, currency = $3, experience_years = $4, location = $5
		WHERE id = $6
		RETURNING ` + salaryColumns

	return scanSalaryRow(s.db.QueryRowContext(ctx, query,
		sal.Position, sal.Amount, sal.Currency, sal.ExperienceYears, sal.Location, sal.ID,
	))
}

// DeleteSalary removes a salary report.
func (s *PostgresStore) DeleteSalary(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrSalaryNotFound
	}
	return nil
}

// SalaryAmounts returns the raw amounts matching the filter, for aggregation.
func (s *PostgresStore) SalaryAmounts(ctx context.Context, filter port.SalaryFilter) ([]float64, error) {
	clause, args := salaryWhere(filter)
	query := `SELECT amount FROM salaries WHERE TRUE` + clause

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("salary amounts: %w", err)
	}
	defer rows.Close()

	var amounts []float64
	for rows.Next() {
		var a float64
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan amount: %w", err)
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}
