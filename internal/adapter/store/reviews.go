package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

const reviewColumns = `id, company_id, user_id, rating, title, content, pros, cons,
	is_current_employee, is_anonymous, work_location, status, created_at, updated_at`

func scanReviewRow(row *sql.Row) (*domain.Review, error) {
	var r domain.Review
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.UserID, &r.Rating, &r.Title, &r.Content, &r.Pros, &r.Cons,
		&r.IsCurrentEmployee, &r.IsAnonymous, &r.WorkLocation, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrReviewNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &r, nil
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	defer rows.Close()
	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(
			&r.ID, &r.CompanyID, &r.UserID, &r.Rating, &r.Title, &r.Content, &r.Pros, &r.Cons,
			&r.IsCurrentEmployee, &r.IsAnonymous, &r.WorkLocation, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CreateReview inserts a review; the caller sets the initial status.
func (s *PostgresStore) CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (company_id, user_id, rating, title, content, pros, cons,
		                     is_current_employee, is_anonymous, work_location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + reviewColumns

	return scanReviewRow(s.db.QueryRowContext(ctx, query,
		r.CompanyID, r.UserID, r.Rating, r.Title, r.Content, r.Pros, r.Cons,
		r.IsCurrentEmployee, r.IsAnonymous, r.WorkLocation, r.Status,
	))
}

// GetReviewByID retrieves a review by id.
func (s *PostgresStore) GetReviewByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReviewRow(s.db.QueryRowContext(ctx, query, id))
}

// ListReviewsByCompany returns a company's reviews, optionally filtered by
// status, newest first.
func (s *PostgresStore) ListReviewsByCompany(ctx context.Context, companyID string, status domain.ReviewStatus, page port.Page) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews by company: %w", err)
	}
	return scanReviews(rows)
}

// ListReviews returns reviews across all companies, optionally filtered by
// status, newest first. Used by the moderation queue.
func (s *PostgresStore) ListReviews(ctx context.Context, status domain.ReviewStatus, page port.Page) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return scanReviews(rows)
}

// UpdateReview writes the mutable fields of a review, including status.
func (s *PostgresStore) UpdateReview(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $1, title = $2, content = $3, pros = $4, cons = $5,
		    is_current_employee = $6, is_anonymous = $7, work_location = $8,
		    status = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING ` + reviewColumns

	return scanReviewRow(s.db.QueryRowContext(ctx, query,
		r.Rating, r.Title, r.Content, r.Pros, r.Cons,
		r.IsCurrentEmployee, r.IsAnonymous, r.WorkLocation, r.Status, r.ID,
	))
}

// DeleteReview removes a review.
func (s *PostgresStore) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrReviewNotFound
	}
	return nil
}

// VerifiedRatingAverage computes the average rating over a company's verified
// reviews; zero when there are none.
func (s *PostgresStore) VerifiedRatingAverage(ctx context.Context, companyID string) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE company_id = $1 AND status = 'verified'`

	var avg float64
	if err := s.db.QueryRowContext(ctx, query, companyID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("verified rating average: %w", err)
	}
	return avg, nil
}

// CreateModerationLog records one moderation decision.
func (s *PostgresStore) CreateModerationLog(ctx context.Context, l *domain.ModerationLog) error {
	query := `INSERT INTO moderation_logs (review_id, moderator_id, decision, note)
	          VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, l.ReviewID, l.ModeratorID, l.Decision, l.Note); err != nil {
		return fmt.Errorf("create moderation log: %w", err)
	}
	return nil
}

// ListModerationLogs returns a review's moderation trail, newest first.
func (s *PostgresStore) ListModerationLogs(ctx context.Context, reviewID string) ([]domain.ModerationLog, error) {
	query := `SELECT id, review_id, moderator_id, decision, note, moderated_at
	          FROM moderation_logs WHERE review_id = $1 ORDER BY moderated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list moderation logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.ModerationLog{}
	for rows.Next() {
		var l domain.ModerationLog
		if err := rows.Scan(&l.ID, &l.ReviewID, &l.ModeratorID, &l.Decision, &l.Note, &l.ModeratedAt); err != nil {
			return nil, fmt.Errorf("scan moderation log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
