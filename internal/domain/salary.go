package domain

import "time"

// Salary is a single compensation report by one user for one company.
type Salary struct {
	ID              string    `json:"id"               db:"id"`
	CompanyID       string    `json:"company_id"       db:"company_id"`
	UserID          string    `json:"user_id"          db:"user_id"`
	Position        string    `json:"position"         db:"position"`
	Amount          float64   `json:"salary_amount"    db:"amount"`
	Currency        string    `json:"currency"         db:"currency"`
	ExperienceYears *float64  `json:"experience_years" db:"experience_years"`
	Location        string    `json:"location"         db:"location"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
}

// SalaryPatch carries the reporter-updatable fields of a salary record.
type SalaryPatch struct {
	Position        *string  `json:"position"`
	Amount          *float64 `json:"salary_amount"`
	Currency        *string  `json:"currency"`
	ExperienceYears *float64 `json:"experience_years"`
	Location        *string  `json:"location"`
}

// SalaryStats aggregates a filtered set of salary amounts. Percentile25 and
// Percentile75 are nil when the set holds fewer than two data points.
type SalaryStats struct {
	Count        int      `json:"count"`
	Average      float64  `json:"average"`
	Median       float64  `json:"median"`
	Min          float64  `json:"min"`
	Max          float64  `json:"max"`
	Percentile25 *float64 `json:"percentile_25"`
	Percentile75 *float64 `json:"percentile_75"`
}
