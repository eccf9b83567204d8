package model

import (
	"time"
)

const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
)

// Task is a to-do item attached to a project, created from chat.
type Task struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;type:uuid"`
	ProjectID string    `json:"project_id" gorm:"column:project_id;type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"column:title;not null"`
	Status    string    `json:"status" gorm:"column:status;default:pending"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}
