package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageLog is a row written by the messaging collaborator (SMS/WhatsApp
// sender, call-center dialer). This service only reads the history; delivery
// mechanics live elsewhere.
type MessageLog struct {
	MessageID uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`

	MessageDonorID uuid.UUID `gorm:"column:message_donor_id;type:uuid;not null;index" json:"message_donor_id"`

	MessageChannel   string `gorm:"column:message_channel;type:varchar(20)" json:"message_channel"`     // sms | whatsapp | call
	MessageDirection string `gorm:"column:message_direction;type:varchar(10)" json:"message_direction"` // inbound | outbound
	MessageBody      string `gorm:"column:message_body;type:text" json:"message_body"`
	MessageStatus    string `gorm:"column:message_status;type:varchar(20)" json:"message_status"`

	MessageSentByUserID *uuid.UUID `gorm:"column:message_sent_by_user_id;type:uuid" json:"message_sent_by_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MessageLog) TableName() string {
	return "message_logs"
}

func (m *MessageLog) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
