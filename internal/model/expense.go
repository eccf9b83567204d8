package model

import (
	"time"
)

// Expense is a single spend entry logged against a project, usually created
// from an inbound WhatsApp message.
type Expense struct {
	ID          string    `json:"id" gorm:"column:id;primaryKey;type:uuid"`
	ProjectID   string    `json:"project_id" gorm:"column:project_id;type:uuid;index;not null"`
	ProfileID   string    `json:"profile_id" gorm:"column:profile_id;type:uuid;index"`
	Amount      int64     `json:"amount" gorm:"column:amount;not null"`
	Description string    `json:"description" gorm:"column:description"`
	Category    string    `json:"category,omitempty" gorm:"column:category;index"`
	MessageID   string    `json:"message_id,omitempty" gorm:"column:message_id"`
	CreatedAt   time.Time `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (Expense) TableName() string {
	return "expenses"
}
