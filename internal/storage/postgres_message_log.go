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

// SaveMessageLog appends a row to the whatsapp_messages audit log. ReceivedAt
// is stamped with the current time when the caller left it zero.
func (r *PostgresRepo) SaveMessageLog(ctx context.Context, msg *model.WhatsAppMessage) error {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = utils.Now()
	}

	operation := func() error {
		if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveMessageLog", operation)
	observer.ObserveDbOperationDuration("save", "message_log", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to save message log after retries",
			zap.String("phone_number", msg.PhoneNumber),
			zap.String("direction", msg.Direction),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// MarkMessageProcessed records the outcome of handling a logged message.
// An empty errText marks the row processed; otherwise the error is stored and
// the row stays unprocessed.
func (r *PostgresRepo) MarkMessageProcessed(ctx context.Context, id int64, errText string) error {
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.WhatsAppMessage{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"processed":  errText == "",
				"error_text": errText,
			})
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: message_log_id %d", apperrors.ErrNotFound, id)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "MarkMessageProcessed", operation)
	observer.ObserveDbOperationDuration("mark_processed", "message_log", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to mark message processed after retries",
			zap.Int64("message_log_id", id),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// FindRecentMessages returns the newest logged messages, for the debug endpoint.
func (r *PostgresRepo) FindRecentMessages(ctx context.Context, limit int) ([]model.WhatsAppMessage, error) {
	var messages []model.WhatsAppMessage
	operation := func() error {
		result := r.db.WithContext(ctx).
			Order("received_at DESC").
			Limit(limit).
			Find(&messages)
		if result.Error != nil {
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindRecentMessages", operation)
	observer.ObserveDbOperationDuration("find_recent", "message_log", time.Since(startTime), findErr)

	if findErr != nil {
		logger.FromContext(ctx).Error("Failed to find recent messages after retries",
			zap.Int("limit", limit),
			zap.Error(findErr))
		return nil, findErr
	}
	if messages == nil {
		return []model.WhatsAppMessage{}, nil
	}
	return messages, nil
}
