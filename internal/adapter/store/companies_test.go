package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iwork-app/iwork-backend/internal/port"
)

func TestListCompanies_EmptyPage(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM companies ORDER BY name ASC`).
		WithArgs(0, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "website", "industry", "location",
			"logo_url", "owner_user_id", "rating", "created_at", "updated_at",
		}))

	companies, err := st.ListCompanies(context.Background(), port.Page{Skip: 0, Limit: 10})
	require.NoError(t, err)
	// empty pages must encode as [], never null
	require.NotNil(t, companies)
	require.Empty(t, companies)
	require.NoError(t, mock.ExpectationsWereMet())
}
