package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	storagemock "github.com/jengatrack/jengatrack/internal/storage/mock"
)

type dashboardFixture struct {
	profiles   *storagemock.ProfileRepoMock
	projects   *storagemock.ProjectRepoMock
	expenses   *storagemock.ExpenseRepoMock
	categories *storagemock.CategoryRepoMock
	service    *DashboardService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		profiles:   new(storagemock.ProfileRepoMock),
		projects:   new(storagemock.ProjectRepoMock),
		expenses:   new(storagemock.ExpenseRepoMock),
		categories: new(storagemock.CategoryRepoMock),
	}
	f.service = NewDashboardService(f.profiles, f.projects, f.expenses, f.categories)
	return f
}

func TestProjectsByPhone_NormalizesBeforeLookup(t *testing.T) {
	f := newDashboardFixture(t)
	profile := &model.Profile{ID: "prof-1", PhoneNumber: "+254712345678"}
	want := []model.Project{{ID: "proj-1", ProfileID: "prof-1", Name: "Nairobi House"}}

	f.profiles.On("FindByPhone", mock.Anything, "+254712345678").Return(profile, nil)
	f.projects.On("FindByProfile", mock.Anything, "prof-1").Return(want, nil)

	projects, err := f.service.ProjectsByPhone(testContext(t), "254 712-345-678")

	require.NoError(t, err)
	assert.Equal(t, want, projects)
}

func TestProjectsByPhone_UnknownNumberYieldsEmptyList(t *testing.T) {
	f := newDashboardFixture(t)
	f.profiles.On("FindByPhone", mock.Anything, "+254700000001").Return(nil, apperrors.ErrNotFound)

	projects, err := f.service.ProjectsByPhone(testContext(t), "+254700000001")

	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	f.projects.AssertNotCalled(t, "FindByProfile", mock.Anything, mock.Anything)
}

func TestProjectsByPhone_EmptyPhoneRejected(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.service.ProjectsByPhone(testContext(t), "  ")

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestProjectSummary_RequiresID(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.service.ProjectSummary(testContext(t), "")

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	f.projects.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
}

func TestProjectExpenses_ClampsPaging(t *testing.T) {
	testCases := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "zero limit uses default", limit: 0, offset: 0, wantLimit: defaultExpensePageSize, wantOffset: 0},
		{name: "negative limit uses default", limit: -5, offset: 0, wantLimit: defaultExpensePageSize, wantOffset: 0},
		{name: "oversized limit clamped", limit: 5000, offset: 40, wantLimit: maxExpensePageSize, wantOffset: 40},
		{name: "negative offset clamped", limit: 10, offset: -1, wantLimit: 10, wantOffset: 0},
		{name: "in range passes through", limit: 25, offset: 50, wantLimit: 25, wantOffset: 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDashboardFixture(t)
			f.expenses.On("FindRecentByProject", mock.Anything, "proj-1", tc.wantLimit, tc.wantOffset).
				Return([]model.Expense{}, nil)

			_, err := f.service.ProjectExpenses(testContext(t), "proj-1", tc.limit, tc.offset)

			require.NoError(t, err)
			f.expenses.AssertExpectations(t)
		})
	}
}

func TestProjectExpenses_RequiresID(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.service.ProjectExpenses(testContext(t), "", 10, 0)

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestCategories_PassesThrough(t *testing.T) {
	f := newDashboardFixture(t)
	want := []model.ExpenseCategory{{Name: "materials"}, {Name: "labor"}}
	f.categories.On("List", mock.Anything).Return(want, nil)

	got, err := f.service.Categories(testContext(t))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
