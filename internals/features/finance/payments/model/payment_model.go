package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodCard         = "card"
)

// Instant payment statuses (payments table).
const (
	InstantStatusPending  = "pending"
	InstantStatusApproved = "approved"
	InstantStatusRejected = "rejected"
)

// Pledge payment statuses (pledge_payments table).
const (
	PledgePaymentStatusPending   = "pending"
	PledgePaymentStatusConfirmed = "confirmed"
	PledgePaymentStatusVoided    = "voided"
)

// InstantPayment is a one-off payment recorded against a donor's phone
// number, not tied to any pledge or plan. Only approved rows count toward
// total_paid.
type InstantPayment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentDonorPhone string          `gorm:"column:payment_donor_phone;type:varchar(30);not null;index" json:"payment_donor_phone"`
	PaymentAmount     decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentMethod     string          `gorm:"column:payment_method;type:varchar(20)" json:"payment_method"`

	PaymentDate            *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaymentReferenceNumber string     `gorm:"column:reference_number;type:varchar(50)" json:"reference_number"`
	PaymentNotes           string     `gorm:"column:payment_notes;type:text" json:"payment_notes"`

	PaymentStatus string `gorm:"column:payment_status;type:varchar(20);default:'pending'" json:"payment_status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InstantPayment) TableName() string {
	return "payments"
}

// PledgePayment is a payment applied against a specific pledge, optionally
// part of an installment plan. Only confirmed rows count toward total_paid.
// A row may be deleted only once voided.
type PledgePayment struct {
	PledgePaymentID uuid.UUID `gorm:"column:pledge_payment_id;type:uuid;primaryKey" json:"pledge_payment_id"`

	PledgePaymentDonorID  uuid.UUID  `gorm:"column:pledge_payment_donor_id;type:uuid;not null;index" json:"pledge_payment_donor_id"`
	PledgePaymentPledgeID uuid.UUID  `gorm:"column:pledge_payment_pledge_id;type:uuid;not null;index" json:"pledge_payment_pledge_id"`
	PledgePaymentPlanID   *uuid.UUID `gorm:"column:pledge_payment_plan_id;type:uuid" json:"pledge_payment_plan_id,omitempty"`

	PledgePaymentAmount decimal.Decimal `gorm:"column:pledge_payment_amount;type:numeric(12,2);not null" json:"pledge_payment_amount"`
	PledgePaymentMethod string          `gorm:"column:pledge_payment_method;type:varchar(20)" json:"pledge_payment_method"`

	PledgePaymentDate            *time.Time `gorm:"column:pledge_payment_date" json:"pledge_payment_date,omitempty"`
	PledgePaymentReferenceNumber string     `gorm:"column:reference_number;type:varchar(50)" json:"reference_number"`
	PledgePaymentProof           string     `gorm:"column:pledge_payment_proof;type:varchar(255)" json:"pledge_payment_proof"`
	PledgePaymentNotes           string     `gorm:"column:pledge_payment_notes;type:text" json:"pledge_payment_notes"`

	PledgePaymentStatus string `gorm:"column:pledge_payment_status;type:varchar(20);default:'pending'" json:"pledge_payment_status"`

	PledgePaymentApprovedByUserID *uuid.UUID `gorm:"column:pledge_payment_approved_by_user_id;type:uuid" json:"pledge_payment_approved_by_user_id,omitempty"`
	PledgePaymentApprovedAt       *time.Time `gorm:"column:pledge_payment_approved_at" json:"pledge_payment_approved_at,omitempty"`
	PledgePaymentVoidedByUserID   *uuid.UUID `gorm:"column:pledge_payment_voided_by_user_id;type:uuid" json:"pledge_payment_voided_by_user_id,omitempty"`
	PledgePaymentVoidedAt         *time.Time `gorm:"column:pledge_payment_voided_at" json:"pledge_payment_voided_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PledgePayment) TableName() string {
	return "pledge_payments"
}

func (p *InstantPayment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

func (p *PledgePayment) BeforeCreate(tx *gorm.DB) error {
	if p.PledgePaymentID == uuid.Nil {
		p.PledgePaymentID = uuid.New()
	}
	return nil
}
