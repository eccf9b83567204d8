package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
)

const (
	testProfileID = "11111111-2222-3333-4444-555555555555"
	testProjectID = "66666666-7777-8888-9999-000000000000"
)

func TestPostgresRepo_SaveProject_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	project := &model.Project{
		ProfileID: testProfileID,
		Name:      "Nairobi House",
	}

	mock.ExpectExec(`INSERT INTO "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveProject(ctx, project)

	assert.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, model.ProjectStatusActive, project.Status, "Save should default status to active")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindActiveProjectByProfile_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "profile_id", "name", "status"}).
		AddRow(testProjectID, testProfileID, "Nairobi House", model.ProjectStatusActive)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE \(profile_id = \$1 AND status = \$2\)`).
		WillReturnRows(rows)

	project, err := repo.FindActiveProjectByProfile(ctx, testProfileID)

	assert.NoError(t, err)
	assert.NotNil(t, project)
	assert.Equal(t, "Nairobi House", project.Name)
	assert.Equal(t, model.ProjectStatusActive, project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindActiveProjectByProfile_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	project, err := repo.FindActiveProjectByProfile(ctx, testProfileID)

	assert.Nil(t, project)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetProjectSummary_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	budget := int64(2000000)
	remaining := int64(1500000)
	rows := sqlmock.NewRows([]string{"project_id", "total_spent", "expense_count", "budget", "remaining"}).
		AddRow(testProjectID, int64(500000), int64(3), budget, remaining)

	mock.ExpectQuery(`FROM get_project_summary\(\$1\)`).
		WithArgs(testProjectID).
		WillReturnRows(rows)

	summary, err := repo.GetProjectSummary(ctx, testProjectID)

	assert.NoError(t, err)
	assert.NotNil(t, summary)
	assert.Equal(t, int64(500000), summary.TotalSpent)
	assert.Equal(t, int64(3), summary.ExpenseCount)
	if assert.NotNil(t, summary.Budget) {
		assert.Equal(t, budget, *summary.Budget)
	}
	if assert.NotNil(t, summary.Remaining) {
		assert.Equal(t, remaining, *summary.Remaining)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetProjectSummary_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM get_project_summary\(\$1\)`).
		WithArgs(testProjectID).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "total_spent", "expense_count", "budget", "remaining"}))

	summary, err := repo.GetProjectSummary(ctx, testProjectID)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpdateProjectBudget_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProjectBudget(ctx, testProjectID, 2000000)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindProjectsByProfile_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	projects, err := repo.FindProjectsByProfile(ctx, testProfileID)

	assert.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindProjectByID_DatabaseError(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "projects"`).
		WillReturnError(errors.New("unexpected query failure"))

	project, err := repo.FindProjectByID(ctx, testProjectID)

	assert.Nil(t, project)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mock.ExpectationsWereMet())
}
