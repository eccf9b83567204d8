package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// ListCategories returns all configured expense categories ordered by name.
func (r *PostgresRepo) ListCategories(ctx context.Context) ([]model.ExpenseCategory, error) {
	var categories []model.ExpenseCategory
	operation := func() error {
		result := r.db.WithContext(ctx).Order("name ASC").Find(&categories)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "ListCategories", operation)
	observer.ObserveDbOperationDuration("list", "category", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to list expense categories after retries", zap.Error(findErr))
		return nil, findErr
	}
	if categories == nil {
		return []model.ExpenseCategory{}, nil
	}
	return categories, nil
}
