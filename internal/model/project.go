package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusPaused    = "paused"
)

// Project is a construction project owned by a profile.
// Budget is stored as a whole-currency amount; nil means no budget set.
type Project struct {
	ID        string         `json:"id" gorm:"column:id;primaryKey;type:uuid"`
	ProfileID string         `json:"profile_id" gorm:"column:profile_id;type:uuid;index;not null"`
	Name      string         `json:"name" gorm:"column:name;not null"`
	Status    string         `json:"status" gorm:"column:status;default:active;index"`
	Budget    *int64         `json:"budget,omitempty" gorm:"column:budget"`
	CreatedAt time.Time      `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// ProjectSummary mirrors the row returned by the get_project_summary SQL
// function: spend aggregates joined with the project's budget.
type ProjectSummary struct {
	ProjectID    string `json:"project_id" gorm:"column:project_id"`
	TotalSpent   int64  `json:"total_spent" gorm:"column:total_spent"`
	ExpenseCount int64  `json:"expense_count" gorm:"column:expense_count"`
	Budget       *int64 `json:"budget,omitempty" gorm:"column:budget"`
	Remaining    *int64 `json:"remaining,omitempty" gorm:"column:remaining"`
}
