package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// WhatsAppMessage is an append-only audit record of inbound and outbound
// message text. Rows are never updated beyond the processed/error fields.
type WhatsAppMessage struct {
	ID          int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	PhoneNumber string         `json:"phone_number" gorm:"column:phone_number;index"`
	Direction   string         `json:"direction" gorm:"column:direction;index"`
	Body        string         `json:"body" gorm:"column:body"`
	MessageType string         `json:"message_type,omitempty" gorm:"column:message_type"`
	Intent      string         `json:"intent,omitempty" gorm:"column:intent;index"`
	Confidence  float64        `json:"confidence,omitempty" gorm:"column:confidence"`
	Processed   bool           `json:"processed" gorm:"column:processed;default:false"`
	ErrorText   string         `json:"error_text,omitempty" gorm:"column:error_text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb;column:metadata"`
	ReceivedAt  time.Time      `json:"received_at" gorm:"column:received_at;index;not null"`
	CreatedAt   time.Time      `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (WhatsAppMessage) TableName() string {
	return "whatsapp_messages"
}
