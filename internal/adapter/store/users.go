package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

const userColumns = `id, email, username, first_name, last_name, profile_picture,
	current_position, current_company_id, password_hash, google_id, role,
	is_active, is_verified, created_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.ProfilePicture,
		&u.CurrentPosition, &u.CurrentCompanyID, &u.PasswordHash, &u.GoogleID, &u.Role,
		&u.IsActive, &u.IsVerified, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user record. Duplicate email or username surfaces
// as the corresponding Conflict sentinel.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, username, first_name, last_name, profile_picture,
		                   current_position, password_hash, google_id, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	row := s.db.QueryRowContext(ctx, query,
		u.Email, u.Username, u.FirstName, u.LastName, u.ProfilePicture,
		u.CurrentPosition, u.PasswordHash, u.GoogleID, u.Role, u.IsVerified,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, port.ErrEmailTaken
		}
		if isUniqueViolation(err, "users_username_key") {
			return nil, port.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetUserByID retrieves a user by id.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByUsername retrieves a user by username.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

// GetUserByGoogleID retrieves a user by its linked Google account id.
func (s *PostgresStore) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, googleID))
}

// GetSettings returns the settings row for a user, or ErrUserNotFound when no
// row exists yet.
func (s *PostgresStore) GetSettings(ctx context.Context, userID string) (*domain.AccountSettings, error) {
	query := `SELECT id, user_id, email_notifications, profile_visibility, data_sharing, two_factor_enabled
	          FROM account_settings WHERE user_id = $1`

	var as domain.AccountSettings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&as.ID, &as.UserID, &as.EmailNotifications, &as.ProfileVisibility,
		&as.DataSharing, &as.TwoFactorEnabled,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrUserNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &as, nil
}

// UpsertSettings inserts or replaces the settings row for a user.
func (s *PostgresStore) UpsertSettings(ctx context.Context, as *domain.AccountSettings) (*domain.AccountSettings, error) {
	query := `
		INSERT INTO account_settings (user_id, email_notifications, profile_visibility, data_sharing, two_factor_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			profile_visibility = EXCLUDED.profile_visibility,
			data_sharing = EXCLUDED.data_sharing,
			two_factor_enabled = EXCLUDED.two_factor_enabled
		RETURNING id, user_id, email_notifications, profile_visibility, data_sharing, two_factor_enabled`

	var out domain.AccountSettings
	err := s.db.QueryRowContext(ctx, query,
		as.UserID, as.EmailNotifications, as.ProfileVisibility, as.DataSharing, as.TwoFactorEnabled,
	).Scan(
		&out.ID, &out.UserID, &out.EmailNotifications, &out.ProfileVisibility,
		&out.DataSharing, &out.TwoFactorEnabled,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return &out, nil
}
