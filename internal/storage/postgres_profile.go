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

// SaveProfile creates a new profile record.
func (r *PostgresRepo) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	operation := func() error {
		if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
			return checkConstraintViolation(err)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveProfile", operation)
	observer.ObserveDbOperationDuration("save", "profile", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to save profile after retries",
			zap.String("phone_number", profile.PhoneNumber),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}

// FindProfileByPhone finds a profile by its normalized phone number.
func (r *PostgresRepo) FindProfileByPhone(ctx context.Context, phoneNumber string) (*model.Profile, error) {
	var profile model.Profile
	operation := func() error {
		result := r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&profile)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: phone %s: %w", apperrors.ErrNotFound, phoneNumber, result.Error)
			}
			return fmt.Errorf("%w: query failed: %w", apperrors.ErrDatabase, result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindProfileByPhone", operation)
	observer.ObserveDbOperationDuration("find_by_phone", "profile", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find profile by phone after retries",
			zap.String("phone_number", phoneNumber),
			zap.Error(findErr))
		return nil, findErr
	}
	return &profile, nil
}

// UpdateProfile persists changes to an existing profile.
func (r *PostgresRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Profile{}).
			Where("id = ?", profile.ID).
			Updates(profile)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: profile_id %s", apperrors.ErrNotFound, profile.ID)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpdateProfile", operation)
	observer.ObserveDbOperationDuration("update", "profile", time.Since(startTime), commitErr)
	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to update profile after retries",
			zap.String("profile_id", profile.ID),
			zap.Error(commitErr))
		return commitErr
	}
	return nil
}
