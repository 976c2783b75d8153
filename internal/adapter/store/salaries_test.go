package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iwork-app/iwork-backend/internal/port"
)

func TestSalaryWhere(t *testing.T) {
	clause, args := salaryWhere(port.SalaryFilter{})
	require.Empty(t, clause)
	require.Empty(t, args)

	clause, args = salaryWhere(port.SalaryFilter{CompanyID: "c-1"})
	require.Equal(t, " AND company_id = $1", clause)
	require.Equal(t, []interface{}{"c-1"}, args)

	clause, args = salaryWhere(port.SalaryFilter{CompanyID: "c-1", Position: "engineer"})
	require.Equal(t, " AND company_id = $1 AND position ILIKE $2", clause)
	require.Equal(t, []interface{}{"c-1", "%engineer%"}, args)
}

func TestSalaryAmounts(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT amount FROM salaries WHERE TRUE AND company_id = \$1 AND position ILIKE \$2`).
		WithArgs("c-1", "%engineer%").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(50000.0).AddRow(60000.0))

	amounts, err := st.SalaryAmounts(context.Background(), port.SalaryFilter{CompanyID: "c-1", Position: "engineer"})
	require.NoError(t, err)
	require.Equal(t, []float64{50000, 60000}, amounts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSalary_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM salaries WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.DeleteSalary(context.Background(), "missing")
	require.ErrorIs(t, err, port.ErrSalaryNotFound)
}
