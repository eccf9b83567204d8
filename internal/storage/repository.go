package storage

import (
	"context"

	"github.com/jengatrack/jengatrack/internal/model"
)

// ProfileRepo defines persistence for user profiles.
type ProfileRepo interface {
	// Save creates a new profile. Returns apperrors.ErrDuplicate when the
	// phone number is already registered.
	Save(ctx context.Context, profile *model.Profile) error
	// FindByPhone returns the profile for a normalized phone number, or
	// apperrors.ErrNotFound.
	FindByPhone(ctx context.Context, phoneNumber string) (*model.Profile, error)
	// Update persists changes to an existing profile.
	Update(ctx context.Context, profile *model.Profile) error
}

// ProjectRepo defines persistence for construction projects.
type ProjectRepo interface {
	Save(ctx context.Context, project *model.Project) error
	// FindActiveByProfile returns the profile's single active project, or
	// apperrors.ErrNotFound when none exists.
	FindActiveByProfile(ctx context.Context, profileID string) (*model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	FindByProfile(ctx context.Context, profileID string) ([]model.Project, error)
	UpdateBudget(ctx context.Context, id string, budget int64) error
	UpdateStatus(ctx context.Context, id string, status string) error
	// Summary returns spend aggregates for a project via the
	// get_project_summary SQL function.
	Summary(ctx context.Context, id string) (*model.ProjectSummary, error)
}

// ExpenseRepo defines persistence for expense entries.
type ExpenseRepo interface {
	Save(ctx context.Context, expense *model.Expense) error
	// FindRecentByProject returns expenses newest first.
	FindRecentByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Expense, error)
}

// TaskRepo defines persistence for project tasks.
type TaskRepo interface {
	Save(ctx context.Context, task *model.Task) error
}

// MessageLogRepo defines the append-only message audit log.
type MessageLogRepo interface {
	Save(ctx context.Context, msg *model.WhatsAppMessage) error
	// MarkProcessed records the outcome of handling an inbound message.
	// An empty errText marks the row processed; otherwise the error is stored.
	MarkProcessed(ctx context.Context, id int64, errText string) error
	FindRecent(ctx context.Context, limit int) ([]model.WhatsAppMessage, error)
}

// AIUsageRepo defines the append-only classifier usage log.
type AIUsageRepo interface {
	Save(ctx context.Context, usage *model.AIUsageLog) error
}

// CategoryRepo exposes the configured expense categories.
type CategoryRepo interface {
	List(ctx context.Context) ([]model.ExpenseCategory, error)
}
