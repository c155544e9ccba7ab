package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PlanStatusActive    = "active"
	PlanStatusPaused    = "paused"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
	PlanStatusDefaulted = "defaulted"
)

const (
	FrequencyWeek  = "week"
	FrequencyMonth = "month"
	FrequencyYear  = "year"
)

// DonorPaymentPlan is an installment schedule against a donor's outstanding
// balance. At most one plan per donor may be active at a time. Due-date
// tracking is passive state read by report queries; nothing runs in the
// background.
type DonorPaymentPlan struct {
	PlanID uuid.UUID `gorm:"column:plan_id;type:uuid;primaryKey" json:"plan_id"`

	PlanDonorID  uuid.UUID  `gorm:"column:plan_donor_id;type:uuid;not null;index" json:"plan_donor_id"`
	PlanPledgeID *uuid.UUID `gorm:"column:plan_pledge_id;type:uuid" json:"plan_pledge_id,omitempty"`

	PlanMonthlyAmount  decimal.Decimal `gorm:"column:plan_monthly_amount;type:numeric(12,2);not null" json:"plan_monthly_amount"`
	PlanDurationMonths int             `gorm:"column:plan_duration_months;not null" json:"plan_duration_months"`
	PlanTotalAmount    decimal.Decimal `gorm:"column:plan_total_amount;type:numeric(12,2);not null" json:"plan_total_amount"`

	PlanAmountPaid   decimal.Decimal `gorm:"column:plan_amount_paid;type:numeric(12,2);default:0" json:"plan_amount_paid"`
	PlanBalance      decimal.Decimal `gorm:"column:plan_balance;type:numeric(12,2);default:0" json:"plan_balance"`
	PlanPaymentsMade int             `gorm:"column:plan_payments_made;default:0" json:"plan_payments_made"`

	PlanStatus string `gorm:"column:plan_status;type:varchar(20);default:'active'" json:"plan_status"`

	PlanStartDate      time.Time  `gorm:"column:plan_start_date;not null" json:"plan_start_date"`
	PlanNextPaymentDue *time.Time `gorm:"column:plan_next_payment_due" json:"plan_next_payment_due,omitempty"`
	PlanPaymentDay     int        `gorm:"column:plan_payment_day;not null" json:"plan_payment_day"` // 1..28

	PlanPreferredMethod string `gorm:"column:plan_preferred_method;type:varchar(20)" json:"plan_preferred_method"`

	PlanFrequencyUnit   string `gorm:"column:plan_frequency_unit;type:varchar(10);default:'month'" json:"plan_frequency_unit"` // week | month | year
	PlanFrequencyNumber int    `gorm:"column:plan_frequency_number;default:1" json:"plan_frequency_number"`

	PlanCreatedByUserID *uuid.UUID `gorm:"column:plan_created_by_user_id;type:uuid" json:"plan_created_by_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DonorPaymentPlan) TableName() string {
	return "donor_payment_plans"
}

func ValidPlanStatus(s string) bool {
	switch s {
	case PlanStatusActive, PlanStatusPaused, PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

func (p *DonorPaymentPlan) BeforeCreate(tx *gorm.DB) error {
	if p.PlanID == uuid.Nil {
		p.PlanID = uuid.New()
	}
	return nil
}
