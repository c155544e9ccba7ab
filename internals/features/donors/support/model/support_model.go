package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusOpen       = "open"
	RequestStatusInProgress = "in_progress"
	RequestStatusResolved   = "resolved"
	RequestStatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type SupportRequest struct {
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;primaryKey" json:"request_id"`

	RequestDonorID uuid.UUID `gorm:"column:request_donor_id;type:uuid;not null;index" json:"request_donor_id"`

	RequestSubject  string `gorm:"column:request_subject;type:varchar(150);not null" json:"request_subject"`
	RequestMessage  string `gorm:"column:request_message;type:text;not null" json:"request_message"`
	RequestCategory string `gorm:"column:request_category;type:varchar(20);default:'general'" json:"request_category"` // payment|plan|account|general|other
	RequestPriority string `gorm:"column:request_priority;type:varchar(10);default:'normal'" json:"request_priority"`

	RequestStatus string `gorm:"column:request_status;type:varchar(20);default:'open'" json:"request_status"`

	RequestAssignedTo *uuid.UUID `gorm:"column:request_assigned_to;type:uuid" json:"request_assigned_to,omitempty"`
	RequestAdminNotes string     `gorm:"column:request_admin_notes;type:text" json:"request_admin_notes"`

	RequestResolvedAt *time.Time `gorm:"column:request_resolved_at" json:"request_resolved_at,omitempty"`
	RequestResolvedBy *uuid.UUID `gorm:"column:request_resolved_by;type:uuid" json:"request_resolved_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SupportRequest) TableName() string {
	return "donor_support_requests"
}

// SupportReply: exactly one of ReplyDonorID / ReplyUserID is set. A nil
// donor id means a staff reply.
type SupportReply struct {
	ReplyID uuid.UUID `gorm:"column:reply_id;type:uuid;primaryKey" json:"reply_id"`

	ReplyRequestID uuid.UUID  `gorm:"column:reply_request_id;type:uuid;not null;index" json:"reply_request_id"`
	ReplyDonorID   *uuid.UUID `gorm:"column:reply_donor_id;type:uuid" json:"reply_donor_id,omitempty"`
	ReplyUserID    *uuid.UUID `gorm:"column:reply_user_id;type:uuid" json:"reply_user_id,omitempty"`

	ReplyMessage    string `gorm:"column:reply_message;type:text;not null" json:"reply_message"`
	ReplyIsInternal bool   `gorm:"column:reply_is_internal;default:false" json:"reply_is_internal"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SupportReply) TableName() string {
	return "donor_support_replies"
}

func (r *SupportRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == uuid.Nil {
		r.RequestID = uuid.New()
	}
	return nil
}

func (r *SupportReply) BeforeCreate(tx *gorm.DB) error {
	if r.ReplyID == uuid.Nil {
		r.ReplyID = uuid.New()
	}
	return nil
}
