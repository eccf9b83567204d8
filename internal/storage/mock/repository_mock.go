package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jengatrack/jengatrack/internal/model"
)

// --- ProfileRepo Mock ---

// ProfileRepoMock mocks the ProfileRepo interface
type ProfileRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *ProfileRepoMock) Save(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// FindByPhone mocks the FindByPhone method
func (m *ProfileRepoMock) FindByPhone(ctx context.Context, phoneNumber string) (*model.Profile, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// Update mocks the Update method
func (m *ProfileRepoMock) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// --- ProjectRepo Mock ---

// ProjectRepoMock mocks the ProjectRepo interface
type ProjectRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *ProjectRepoMock) Save(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// FindActiveByProfile mocks the FindActiveByProfile method
func (m *ProjectRepoMock) FindActiveByProfile(ctx context.Context, profileID string) (*model.Project, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

// FindByID mocks the FindByID method
func (m *ProjectRepoMock) FindByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

// FindByProfile mocks the FindByProfile method
func (m *ProjectRepoMock) FindByProfile(ctx context.Context, profileID string) ([]model.Project, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

// UpdateBudget mocks the UpdateBudget method
func (m *ProjectRepoMock) UpdateBudget(ctx context.Context, id string, budget int64) error {
	args := m.Called(ctx, id, budget)
	return args.Error(0)
}

// UpdateStatus mocks the UpdateStatus method
func (m *ProjectRepoMock) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// Summary mocks the Summary method
func (m *ProjectRepoMock) Summary(ctx context.Context, id string) (*model.ProjectSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectSummary), args.Error(1)
}

// --- ExpenseRepo Mock ---

// ExpenseRepoMock mocks the ExpenseRepo interface
type ExpenseRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *ExpenseRepoMock) Save(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

// FindRecentByProject mocks the FindRecentByProject method
func (m *ExpenseRepoMock) FindRecentByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Expense, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

// --- TaskRepo Mock ---

// TaskRepoMock mocks the TaskRepo interface
type TaskRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *TaskRepoMock) Save(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// --- MessageLogRepo Mock ---

// MessageLogRepoMock mocks the MessageLogRepo interface
type MessageLogRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *MessageLogRepoMock) Save(ctx context.Context, msg *model.WhatsAppMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MarkProcessed mocks the MarkProcessed method
func (m *MessageLogRepoMock) MarkProcessed(ctx context.Context, id int64, errText string) error {
	args := m.Called(ctx, id, errText)
	return args.Error(0)
}

// FindRecent mocks the FindRecent method
func (m *MessageLogRepoMock) FindRecent(ctx context.Context, limit int) ([]model.WhatsAppMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WhatsAppMessage), args.Error(1)
}

// --- AIUsageRepo Mock ---

// AIUsageRepoMock mocks the AIUsageRepo interface
type AIUsageRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *AIUsageRepoMock) Save(ctx context.Context, usage *model.AIUsageLog) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

// --- CategoryRepo Mock ---

// CategoryRepoMock mocks the CategoryRepo interface
type CategoryRepoMock struct {
	mock.Mock
}

// List mocks the List method
func (m *CategoryRepoMock) List(ctx context.Context) ([]model.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExpenseCategory), args.Error(1)
}
