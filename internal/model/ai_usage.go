package model

import (
	"time"

	"gorm.io/datatypes"
)

// AIUsageLog is an append-only record of token counts and estimated cost per
// classifier invocation.
type AIUsageLog struct {
	ID               int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Model            string         `json:"model" gorm:"column:model;index"`
	PromptTokens     int            `json:"prompt_tokens" gorm:"column:prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens" gorm:"column:completion_tokens"`
	EstimatedCost    float64        `json:"estimated_cost" gorm:"column:estimated_cost"`
	Intent           string         `json:"intent,omitempty" gorm:"column:intent"`
	Metadata         datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb;column:metadata"`
	CreatedAt        time.Time      `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (AIUsageLog) TableName() string {
	return "ai_usage_log"
}
