package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PledgeStatusPending   = "pending"
	PledgeStatusApproved  = "approved"
	PledgeStatusRejected  = "rejected"
	PledgeStatusCancelled = "cancelled"
)

// Pledge is a donor's promise to pay. Only approved pledges count toward
// total_pledged in reconciliation.
type Pledge struct {
	PledgeID uuid.UUID `gorm:"column:pledge_id;type:uuid;primaryKey" json:"pledge_id"`

	PledgeDonorID uuid.UUID       `gorm:"column:pledge_donor_id;type:uuid;not null;index" json:"pledge_donor_id"`
	PledgeAmount  decimal.Decimal `gorm:"column:pledge_amount;type:numeric(12,2);not null" json:"pledge_amount"`

	PledgeStatus string `gorm:"column:pledge_status;type:varchar(20);default:'pending'" json:"pledge_status"`

	// Free text; may embed a 4-digit reference number picked up by the
	// reference extractor.
	PledgeNotes string `gorm:"column:pledge_notes;type:text" json:"pledge_notes"`

	PledgeCreatedByUserID *uuid.UUID `gorm:"column:pledge_created_by_user_id;type:uuid" json:"pledge_created_by_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Pledge) TableName() string {
	return "pledges"
}

func (p *Pledge) BeforeCreate(tx *gorm.DB) error {
	if p.PledgeID == uuid.Nil {
		p.PledgeID = uuid.New()
	}
	return nil
}
