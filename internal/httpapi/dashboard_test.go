package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	storagemock "github.com/jengatrack/jengatrack/internal/storage/mock"
	"github.com/jengatrack/jengatrack/internal/usecase"
)

type dashboardFixture struct {
	profiles   *storagemock.ProfileRepoMock
	projects   *storagemock.ProjectRepoMock
	expenses   *storagemock.ExpenseRepoMock
	categories *storagemock.CategoryRepoMock
	router     *gin.Engine
}

func newDashboardRouter(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		profiles:   new(storagemock.ProfileRepoMock),
		projects:   new(storagemock.ProjectRepoMock),
		expenses:   new(storagemock.ExpenseRepoMock),
		categories: new(storagemock.CategoryRepoMock),
	}
	service := usecase.NewDashboardService(f.profiles, f.projects, f.expenses, f.categories)
	handler := NewDashboardHandler(service)

	f.router = gin.New()
	f.router.Use(RequestContext(zaptest.NewLogger(t)))
	f.router.GET("/api/projects", handler.Projects)
	f.router.GET("/api/projects/:id/summary", handler.ProjectSummary)
	f.router.GET("/api/projects/:id/expenses", handler.ProjectExpenses)
	f.router.GET("/api/categories", handler.Categories)
	return f
}

func (f *dashboardFixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardProjects(t *testing.T) {
	f := newDashboardRouter(t)
	profile := &model.Profile{ID: gofakeit.UUID(), PhoneNumber: "+254712345678", DisplayName: gofakeit.Name()}
	projects := []model.Project{
		{ID: gofakeit.UUID(), ProfileID: profile.ID, Name: "Nairobi House", Status: model.ProjectStatusActive},
		{ID: gofakeit.UUID(), ProfileID: profile.ID, Name: "Thika Flats", Status: model.ProjectStatusPaused},
	}
	f.profiles.On("FindByPhone", mock.Anything, "+254712345678").Return(profile, nil)
	f.projects.On("FindByProfile", mock.Anything, profile.ID).Return(projects, nil)

	rec := f.get("/api/projects?phone=%2B254712345678")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
	assert.Contains(t, rec.Body.String(), "Nairobi House")
}

func TestDashboardProjects_MissingPhone(t *testing.T) {
	f := newDashboardRouter(t)

	rec := f.get("/api/projects")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardProjects_UnknownPhoneEmptyList(t *testing.T) {
	f := newDashboardRouter(t)
	f.profiles.On("FindByPhone", mock.Anything, "+254700000001").Return(nil, apperrors.ErrNotFound)

	rec := f.get("/api/projects?phone=%2B254700000001")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestDashboardProjectSummary(t *testing.T) {
	f := newDashboardRouter(t)
	projectID := gofakeit.UUID()
	budget := int64(2000000)
	remaining := int64(1250000)
	f.projects.On("Summary", mock.Anything, projectID).Return(&model.ProjectSummary{
		ProjectID:    projectID,
		TotalSpent:   750000,
		ExpenseCount: 3,
		Budget:       &budget,
		Remaining:    &remaining,
	}, nil)

	rec := f.get("/api/projects/" + projectID + "/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_spent":750000`)
	assert.Contains(t, rec.Body.String(), `"remaining":1250000`)
}

func TestDashboardProjectSummary_NotFound(t *testing.T) {
	f := newDashboardRouter(t)
	projectID := gofakeit.UUID()
	f.projects.On("Summary", mock.Anything, projectID).Return(nil, apperrors.ErrNotFound)

	rec := f.get("/api/projects/" + projectID + "/summary")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardProjectExpenses(t *testing.T) {
	f := newDashboardRouter(t)
	projectID := gofakeit.UUID()
	f.expenses.On("FindRecentByProject", mock.Anything, projectID, 10, 5).
		Return([]model.Expense{{ID: gofakeit.UUID(), ProjectID: projectID, Amount: 500000, Description: "cement"}}, nil)

	rec := f.get("/api/projects/" + projectID + "/expenses?limit=10&offset=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cement")
	f.expenses.AssertExpectations(t)
}

func TestDashboardProjectExpenses_BadLimit(t *testing.T) {
	f := newDashboardRouter(t)

	rec := f.get("/api/projects/" + gofakeit.UUID() + "/expenses?limit=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardCategories(t *testing.T) {
	f := newDashboardRouter(t)
	f.categories.On("List", mock.Anything).
		Return([]model.ExpenseCategory{{Name: "materials"}, {Name: "labor"}}, nil)

	rec := f.get("/api/categories")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "materials")
}

func TestDashboardDatabaseErrorIsOpaque(t *testing.T) {
	f := newDashboardRouter(t)
	f.categories.On("List", mock.Anything).Return(nil, apperrors.ErrDatabase)

	rec := f.get("/api/categories")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "database")
}
