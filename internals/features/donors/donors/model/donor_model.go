package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment status values written by the reconciliation engine (overdue and
// defaulted are set by the plan lateness check, never by reconciliation).
const (
	PaymentStatusNoPledge   = "no_pledge"
	PaymentStatusNotStarted = "not_started"
	PaymentStatusPaying     = "paying"
	PaymentStatusOverdue    = "overdue"
	PaymentStatusCompleted  = "completed"
	PaymentStatusDefaulted  = "defaulted"
)

const (
	BadgePending      = "pending"
	BadgeStarted      = "started"
	BadgeOnTrack      = "on_track"
	BadgeFastFinisher = "fast_finisher"
	BadgeCompleted    = "completed"
	BadgeChampion     = "champion"
)

// Donor carries identity plus a denormalized financial snapshot
// (total_pledged / total_paid / balance / payment_status). The snapshot is
// canonical only right after reconciliation; ledger rows are ground truth.
type Donor struct {
	DonorID uuid.UUID `gorm:"column:donor_id;type:uuid;primaryKey" json:"donor_id"`

	// Seq is the human-facing numeric id used for the zero-padded reference
	// fallback.
	DonorSeq int64 `gorm:"column:donor_seq;autoIncrement;unique" json:"donor_seq"`

	DonorName        string `gorm:"column:donor_name;type:varchar(120);not null" json:"donor_name"`
	DonorPhone       string `gorm:"column:donor_phone;type:varchar(30);not null;unique" json:"donor_phone"`
	DonorEmail       string `gorm:"column:donor_email;type:varchar(120)" json:"donor_email"`
	DonorCity        string `gorm:"column:donor_city;type:varchar(80)" json:"donor_city"`
	DonorBaptismName string `gorm:"column:donor_baptism_name;type:varchar(120)" json:"donor_baptism_name"`

	DonorPreferredLanguage      string `gorm:"column:donor_preferred_language;type:varchar(5);default:'en'" json:"donor_preferred_language"` // en | am | ti
	DonorPreferredPaymentMethod string `gorm:"column:donor_preferred_payment_method;type:varchar(20)" json:"donor_preferred_payment_method"` // bank_transfer | cash | card
	DonorSource                 string `gorm:"column:donor_source;type:varchar(30);default:'admin'" json:"donor_source"`

	DonorTotalPledged decimal.Decimal `gorm:"column:donor_total_pledged;type:numeric(12,2);default:0" json:"donor_total_pledged"`
	DonorTotalPaid    decimal.Decimal `gorm:"column:donor_total_paid;type:numeric(12,2);default:0" json:"donor_total_paid"`
	DonorBalance      decimal.Decimal `gorm:"column:donor_balance;type:numeric(12,2);default:0" json:"donor_balance"`

	DonorPaymentStatus    string `gorm:"column:donor_payment_status;type:varchar(20);default:'no_pledge'" json:"donor_payment_status"`
	DonorAchievementBadge string `gorm:"column:donor_achievement_badge;type:varchar(20);default:'pending'" json:"donor_achievement_badge"`

	DonorHasActivePlan       bool       `gorm:"column:donor_has_active_plan;default:false" json:"donor_has_active_plan"`
	DonorActivePaymentPlanID *uuid.UUID `gorm:"column:donor_active_payment_plan_id;type:uuid" json:"donor_active_payment_plan_id,omitempty"`

	// Plan mirror fields for fast list display, written together with the
	// plan row.
	DonorPlanMonthlyAmount  *decimal.Decimal `gorm:"column:donor_plan_monthly_amount;type:numeric(12,2)" json:"donor_plan_monthly_amount,omitempty"`
	DonorPlanDurationMonths *int             `gorm:"column:donor_plan_duration_months" json:"donor_plan_duration_months,omitempty"`
	DonorPlanStartDate      *time.Time       `gorm:"column:donor_plan_start_date" json:"donor_plan_start_date,omitempty"`
	DonorPlanNextDueDate    *time.Time       `gorm:"column:donor_plan_next_due_date" json:"donor_plan_next_due_date,omitempty"`

	DonorChurchID         *uuid.UUID `gorm:"column:donor_church_id;type:uuid" json:"donor_church_id,omitempty"`
	DonorRepresentativeID *uuid.UUID `gorm:"column:representative_id;type:uuid" json:"representative_id,omitempty"`
	DonorAgentID          *uuid.UUID `gorm:"column:donor_agent_id;type:uuid" json:"donor_agent_id,omitempty"`

	DonorPortalToken        *string `gorm:"column:donor_portal_token;type:varchar(64)" json:"donor_portal_token,omitempty"`
	DonorSmsOptIn           bool    `gorm:"column:donor_sms_opt_in;default:true" json:"donor_sms_opt_in"`
	DonorFlaggedForFollowup bool    `gorm:"column:donor_flagged_for_followup;default:false" json:"donor_flagged_for_followup"`
	DonorAdminNotes         string  `gorm:"column:donor_admin_notes;type:text" json:"donor_admin_notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Donor) TableName() string {
	return "donors"
}

// FinancialSnapshot is the audit-log view of the donor money fields.
type FinancialSnapshot struct {
	TotalPledged     decimal.Decimal `json:"total_pledged"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
	PaymentStatus    string          `json:"payment_status"`
	AchievementBadge string          `json:"achievement_badge"`
}

func (d *Donor) Snapshot() FinancialSnapshot {
	return FinancialSnapshot{
		TotalPledged:     d.DonorTotalPledged,
		TotalPaid:        d.DonorTotalPaid,
		Balance:          d.DonorBalance,
		PaymentStatus:    d.DonorPaymentStatus,
		AchievementBadge: d.DonorAchievementBadge,
	}
}

// BeforeCreate assigns the primary key in code so inserts behave the same on
// every dialect the repo runs against.
func (d *Donor) BeforeCreate(tx *gorm.DB) error {
	if d.DonorID == uuid.Nil {
		d.DonorID = uuid.New()
	}
	return nil
}
