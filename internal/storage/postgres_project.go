package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// SaveProject creates a new project record.
func (r *PostgresRepo) SaveProject(ctx context.Context, project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}

	operation := func() error {
		if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveProject", operation)
	observer.ObserveDbOperationDuration("save", "project", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to save project after retries",
			zap.String("profile_id", project.ProfileID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// FindActiveProjectByProfile returns the profile's active project. Profiles
// hold at most one active project; the newest wins if data drifts.
func (r *PostgresRepo) FindActiveProjectByProfile(ctx context.Context, profileID string) (*model.Project, error) {
	var project model.Project
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("profile_id = ? AND status = ?", profileID, model.ProjectStatusActive).
			Order("created_at DESC").
			First(&project)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no active project for profile %s: %w", apperrors.ErrNotFound, profileID, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindActiveProjectByProfile", operation)
	observer.ObserveDbOperationDuration("find_active_by_profile", "project", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find active project after retries",
			zap.String("profile_id", profileID),
			zap.Error(findErr))
		return nil, findErr
	}
	return &project, nil
}

// FindProjectByID finds a project by its ID.
func (r *PostgresRepo) FindProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", id).First(&project)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project_id %s: %w", apperrors.ErrNotFound, id, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindProjectByID", operation)
	observer.ObserveDbOperationDuration("find_by_id", "project", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find project by ID after retries",
			zap.String("project_id", id),
			zap.Error(findErr))
		return nil, findErr
	}
	return &project, nil
}

// FindProjectsByProfile returns all projects owned by a profile, newest first.
func (r *PostgresRepo) FindProjectsByProfile(ctx context.Context, profileID string) ([]model.Project, error) {
	var projects []model.Project
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("profile_id = ?", profileID).
			Order("created_at DESC").
			Find(&projects)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindProjectsByProfile", operation)
	observer.ObserveDbOperationDuration("find_by_profile", "project", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to find projects by profile after retries",
			zap.String("profile_id", profileID),
			zap.Error(findErr))
		return nil, findErr
	}
	if projects == nil {
		return []model.Project{}, nil
	}
	return projects, nil
}

// UpdateProjectBudget sets the budget on a project.
func (r *PostgresRepo) UpdateProjectBudget(ctx context.Context, id string, budget int64) error {
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Project{}).
			Where("id = ?", id).
			Update("budget", budget)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: project_id %s", apperrors.ErrNotFound, id)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpdateProjectBudget", operation)
	observer.ObserveDbOperationDuration("update_budget", "project", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to update project budget after retries",
			zap.String("project_id", id),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// UpdateProjectStatus transitions a project's status.
func (r *PostgresRepo) UpdateProjectStatus(ctx context.Context, id string, status string) error {
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Project{}).
			Where("id = ?", id).
			Update("status", status)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: project_id %s", apperrors.ErrNotFound, id)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpdateProjectStatus", operation)
	observer.ObserveDbOperationDuration("update_status", "project", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to update project status after retries",
			zap.String("project_id", id),
			zap.String("status", status),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// GetProjectSummary reads spend aggregates via the get_project_summary SQL
// function so totals are computed server-side.
func (r *PostgresRepo) GetProjectSummary(ctx context.Context, id string) (*model.ProjectSummary, error) {
	var summary model.ProjectSummary
	operation := func() error {
		result := r.db.WithContext(ctx).
			Raw("SELECT project_id, total_spent, expense_count, budget, remaining FROM get_project_summary(?)", id).
			Scan(&summary)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: project_id %s", apperrors.ErrNotFound, id)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetProjectSummary", operation)
	observer.ObserveDbOperationDuration("summary", "project", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to get project summary after retries",
			zap.String("project_id", id),
			zap.Error(findErr))
		return nil, findErr
	}
	return &summary, nil
}
