package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/model"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// SaveAIUsage appends a classifier usage record.
func (r *PostgresRepo) SaveAIUsage(ctx context.Context, usage *model.AIUsageLog) error {
	operation := func() error {
		if err := r.db.WithContext(ctx).Create(usage).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveAIUsage", operation)
	observer.ObserveDbOperationDuration("save", "ai_usage", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to save AI usage log after retries",
			zap.String("model", usage.Model),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}
