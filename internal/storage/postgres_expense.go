package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// SaveExpense creates a new expense record.
func (r *PostgresRepo) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	operation := func() error {
		if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveExpense", operation)
	observer.ObserveDbOperationDuration("save", "expense", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to save expense after retries",
			zap.String("project_id", expense.ProjectID),
			zap.Int64("amount", expense.Amount),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// FindExpensesByProject returns a project's expenses newest first.
func (r *PostgresRepo) FindExpensesByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Expense, error) {
	var expenses []model.Expense
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("project_id = ?", projectID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&expenses)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindExpensesByProject", operation)
	observer.ObserveDbOperationDuration("find_by_project", "expense", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to find expenses by project after retries",
			zap.String("project_id", projectID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Error(findErr))
		return nil, findErr
	}
	if expenses == nil {
		return []model.Expense{}, nil
	}
	return expenses, nil
}
