package storage

import (
	"context"

	"github.com/jengatrack/jengatrack/internal/model"
)

// ProfileRepoAdapter adapts the PostgresRepo to the ProfileRepo interface
type ProfileRepoAdapter struct {
	postgres *PostgresRepo
}

// NewProfileRepoAdapter creates a new profile repository adapter
func NewProfileRepoAdapter(postgres *PostgresRepo) ProfileRepo {
	return &ProfileRepoAdapter{postgres: postgres}
}

func (a *ProfileRepoAdapter) Save(ctx context.Context, profile *model.Profile) error {
	return a.postgres.SaveProfile(ctx, profile)
}

func (a *ProfileRepoAdapter) FindByPhone(ctx context.Context, phoneNumber string) (*model.Profile, error) {
	return a.postgres.FindProfileByPhone(ctx, phoneNumber)
}

func (a *ProfileRepoAdapter) Update(ctx context.Context, profile *model.Profile) error {
	return a.postgres.UpdateProfile(ctx, profile)
}

// ProjectRepoAdapter adapts the PostgresRepo to the ProjectRepo interface
type ProjectRepoAdapter struct {
	postgres *PostgresRepo
}

// NewProjectRepoAdapter creates a new project repository adapter
func NewProjectRepoAdapter(postgres *PostgresRepo) ProjectRepo {
	return &ProjectRepoAdapter{postgres: postgres}
}

func (a *ProjectRepoAdapter) Save(ctx context.Context, project *model.Project) error {
	return a.postgres.SaveProject(ctx, project)
}

func (a *ProjectRepoAdapter) FindActiveByProfile(ctx context.Context, profileID string) (*model.Project, error) {
	return a.postgres.FindActiveProjectByProfile(ctx, profileID)
}

func (a *ProjectRepoAdapter) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return a.postgres.FindProjectByID(ctx, id)
}

func (a *ProjectRepoAdapter) FindByProfile(ctx context.Context, profileID string) ([]model.Project, error) {
	return a.postgres.FindProjectsByProfile(ctx, profileID)
}

func (a *ProjectRepoAdapter) UpdateBudget(ctx context.Context, id string, budget int64) error {
	return a.postgres.UpdateProjectBudget(ctx, id, budget)
}

func (a *ProjectRepoAdapter) UpdateStatus(ctx context.Context, id string, status string) error {
	return a.postgres.UpdateProjectStatus(ctx, id, status)
}

func (a *ProjectRepoAdapter) Summary(ctx context.Context, id string) (*model.ProjectSummary, error) {
	return a.postgres.GetProjectSummary(ctx, id)
}

// ExpenseRepoAdapter adapts the PostgresRepo to the ExpenseRepo interface
type ExpenseRepoAdapter struct {
	postgres *PostgresRepo
}

// NewExpenseRepoAdapter creates a new expense repository adapter
func NewExpenseRepoAdapter(postgres *PostgresRepo) ExpenseRepo {
	return &ExpenseRepoAdapter{postgres: postgres}
}

func (a *ExpenseRepoAdapter) Save(ctx context.Context, expense *model.Expense) error {
	return a.postgres.SaveExpense(ctx, expense)
}

func (a *ExpenseRepoAdapter) FindRecentByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Expense, error) {
	return a.postgres.FindExpensesByProject(ctx, projectID, limit, offset)
}

// TaskRepoAdapter adapts the PostgresRepo to the TaskRepo interface
type TaskRepoAdapter struct {
	postgres *PostgresRepo
}

// NewTaskRepoAdapter creates a new task repository adapter
func NewTaskRepoAdapter(postgres *PostgresRepo) TaskRepo {
	return &TaskRepoAdapter{postgres: postgres}
}

func (a *TaskRepoAdapter) Save(ctx context.Context, task *model.Task) error {
	return a.postgres.SaveTask(ctx, task)
}

// MessageLogRepoAdapter adapts the PostgresRepo to the MessageLogRepo interface
type MessageLogRepoAdapter struct {
	postgres *PostgresRepo
}

// NewMessageLogRepoAdapter creates a new message log repository adapter
func NewMessageLogRepoAdapter(postgres *PostgresRepo) MessageLogRepo {
	return &MessageLogRepoAdapter{postgres: postgres}
}

func (a *MessageLogRepoAdapter) Save(ctx context.Context, msg *model.WhatsAppMessage) error {
	return a.postgres.SaveMessageLog(ctx, msg)
}

func (a *MessageLogRepoAdapter) MarkProcessed(ctx context.Context, id int64, errText string) error {
	return a.postgres.MarkMessageProcessed(ctx, id, errText)
}

func (a *MessageLogRepoAdapter) FindRecent(ctx context.Context, limit int) ([]model.WhatsAppMessage, error) {
	return a.postgres.FindRecentMessages(ctx, limit)
}

// AIUsageRepoAdapter adapts the PostgresRepo to the AIUsageRepo interface
type AIUsageRepoAdapter struct {
	postgres *PostgresRepo
}

// NewAIUsageRepoAdapter creates a new AI usage repository adapter
func NewAIUsageRepoAdapter(postgres *PostgresRepo) AIUsageRepo {
	return &AIUsageRepoAdapter{postgres: postgres}
}

func (a *AIUsageRepoAdapter) Save(ctx context.Context, usage *model.AIUsageLog) error {
	return a.postgres.SaveAIUsage(ctx, usage)
}

// CategoryRepoAdapter adapts the PostgresRepo to the CategoryRepo interface
type CategoryRepoAdapter struct {
	postgres *PostgresRepo
}

// NewCategoryRepoAdapter creates a new category repository adapter
func NewCategoryRepoAdapter(postgres *PostgresRepo) CategoryRepo {
	return &CategoryRepoAdapter{postgres: postgres}
}

func (a *CategoryRepoAdapter) List(ctx context.Context) ([]model.ExpenseCategory, error) {
	return a.postgres.ListCategories(ctx)
}

// Ensure adapters implement the interfaces
var _ ProfileRepo = (*ProfileRepoAdapter)(nil)
var _ ProjectRepo = (*ProjectRepoAdapter)(nil)
var _ ExpenseRepo = (*ExpenseRepoAdapter)(nil)
var _ TaskRepo = (*TaskRepoAdapter)(nil)
var _ MessageLogRepo = (*MessageLogRepoAdapter)(nil)
var _ AIUsageRepo = (*AIUsageRepoAdapter)(nil)
var _ CategoryRepo = (*CategoryRepoAdapter)(nil)
