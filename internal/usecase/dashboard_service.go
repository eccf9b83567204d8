package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/storage"
)

// Expense page size bounds for the dashboard API.
const (
	defaultExpensePageSize = 20
	maxExpensePageSize     = 100
)

// DashboardService serves the read-side JSON API the dashboard consumes.
type DashboardService struct {
	profiles   storage.ProfileRepo
	projects   storage.ProjectRepo
	expenses   storage.ExpenseRepo
	categories storage.CategoryRepo
}

// NewDashboardService wires the dashboard read paths.
func NewDashboardService(
	profiles storage.ProfileRepo,
	projects storage.ProjectRepo,
	expenses storage.ExpenseRepo,
	categories storage.CategoryRepo,
) *DashboardService {
	return &DashboardService{
		profiles:   profiles,
		projects:   projects,
		expenses:   expenses,
		categories: categories,
	}
}

// ProjectsByPhone lists the projects owned by the profile behind a phone
// number. Unknown numbers yield an empty list, not an error.
func (s *DashboardService) ProjectsByPhone(ctx context.Context, phone string) ([]model.Project, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, fmt.Errorf("%w: phone is required", apperrors.ErrBadRequest)
	}

	profile, err := s.profiles.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []model.Project{}, nil
		}
		return nil, err
	}
	return s.projects.FindByProfile(ctx, profile.ID)
}

// ProjectSummary returns spend aggregates for a project.
func (s *DashboardService) ProjectSummary(ctx context.Context, projectID string) (*model.ProjectSummary, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", apperrors.ErrBadRequest)
	}
	return s.projects.Summary(ctx, projectID)
}

// ProjectExpenses lists a project's expenses, newest first. Limit is clamped
// to [1, maxExpensePageSize]; zero means the default page size.
func (s *DashboardService) ProjectExpenses(ctx context.Context, projectID string, limit, offset int) ([]model.Expense, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", apperrors.ErrBadRequest)
	}
	if limit <= 0 {
		limit = defaultExpensePageSize
	}
	if limit > maxExpensePageSize {
		limit = maxExpensePageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.expenses.FindRecentByProject(ctx, projectID, limit, offset)
}

// Categories lists the configured expense categories.
func (s *DashboardService) Categories(ctx context.Context) ([]model.ExpenseCategory, error) {
	return s.categories.List(ctx)
}
