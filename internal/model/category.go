package model

import (
	"gorm.io/datatypes"
)

// ExpenseCategory holds a category name and the keyword list the parser uses
// to assign expenses to it.
type ExpenseCategory struct {
	ID       int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name     string         `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Keywords datatypes.JSON `json:"keywords,omitempty" gorm:"type:jsonb;column:keywords"`
}

// TableName specifies the table name for GORM.
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}
