package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultCurrency = "KES"
	DefaultLanguage = "en"
)

// Profile is a registered user identified by a WhatsApp phone number.
type Profile struct {
	ID          string         `json:"id" gorm:"column:id;primaryKey;type:uuid"`
	PhoneNumber string         `json:"phone_number" gorm:"column:phone_number;uniqueIndex;not null"`
	DisplayName string         `json:"display_name,omitempty" gorm:"column:display_name"`
	Currency    string         `json:"currency,omitempty" gorm:"column:currency;default:KES"`
	Language    string         `json:"language,omitempty" gorm:"column:language;default:en"`
	CreatedAt   time.Time      `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// CurrencyOrDefault returns the profile's preferred currency, falling back to
// the service default when unset.
func (p *Profile) CurrencyOrDefault() string {
	if p == nil || p.Currency == "" {
		return DefaultCurrency
	}
	return p.Currency
}
