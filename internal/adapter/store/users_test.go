package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresStore{db: db}, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "username", "first_name", "last_name", "profile_picture",
		"current_position", "current_company_id", "password_hash", "google_id", "role",
		"is_active", "is_verified", "created_at",
	})
}

func TestGetUserByEmail(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(userRows().AddRow(
			"id-1", "a@b.com", "alice", "Alice", "A", "",
			"", nil, "hash", nil, "user",
			true, false, created,
		))

	user, err := st.GetUserByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "id-1", user.ID)
	require.Equal(t, "alice", user.Username)
	require.NotNil(t, user.PasswordHash)
	require.Nil(t, user.GoogleID)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("missing@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetUserByEmail(context.Background(), "missing@b.com")
	require.ErrorIs(t, err, port.ErrUserNotFound)
}

func TestCreateUser_UniqueViolations(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email taken", "users_email_key", port.ErrEmailTaken},
		{"username taken", "users_username_key", port.ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tc.constraint})

			_, err := st.CreateUser(context.Background(), &domain.User{
				Email:    "a@b.com",
				Username: "alice",
				Role:     domain.RoleUser,
			})
			require.ErrorIs(t, err, tc.want)
		})
	}
}
