package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
)

func TestPostgresRepo_SaveExpense_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	expense := &model.Expense{
		ProjectID:   testProjectID,
		ProfileID:   testProfileID,
		Amount:      500000,
		Description: "cement",
		Category:    "materials",
	}

	mock.ExpectExec(`INSERT INTO "expenses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveExpense(ctx, expense)

	assert.NoError(t, err)
	assert.NotEmpty(t, expense.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_SaveExpense_UnknownProject(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	expense := &model.Expense{
		ProjectID: "not-a-project",
		Amount:    100,
	}

	mock.ExpectExec(`INSERT INTO "expenses"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_expenses_project"})

	err := repo.SaveExpense(ctx, expense)

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindExpensesByProject_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "project_id", "amount", "description", "category"}).
		AddRow("expense-1", testProjectID, int64(500000), "cement", "materials").
		AddRow("expense-2", testProjectID, int64(12000), "fuel", "transport")

	mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE project_id = \$1`).
		WillReturnRows(rows)

	expenses, err := repo.FindExpensesByProject(ctx, testProjectID, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, expenses, 2)
	assert.Equal(t, int64(500000), expenses[0].Amount)
	assert.Equal(t, "transport", expenses[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindExpensesByProject_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "expenses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	expenses, err := repo.FindExpensesByProject(ctx, testProjectID, 10, 0)

	assert.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Empty(t, expenses)
	assert.NoError(t, mock.ExpectationsWereMet())
}
