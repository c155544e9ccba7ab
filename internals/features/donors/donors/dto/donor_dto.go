package dto

import (
	"github.com/shopspring/decimal"
)

type CreateDonorRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,max=30"`
	Email       string `json:"email" validate:"omitempty,email,max=120"`
	City        string `json:"city" validate:"max=80"`
	BaptismName string `json:"baptism_name" validate:"max=120"`

	PreferredLanguage      string `json:"preferred_language" validate:"omitempty,oneof=en am ti"`
	PreferredPaymentMethod string `json:"preferred_payment_method" validate:"omitempty,oneof=bank_transfer cash card"`
	Source                 string `json:"source" validate:"max=30"`

	ChurchID         *string `json:"church_id" validate:"omitempty,uuid4"`
	RepresentativeID *string `json:"representative_id" validate:"omitempty,uuid4"`

	SmsOptIn   *bool  `json:"sms_opt_in"`
	AdminNotes string `json:"admin_notes"`
}

type UpdateDonorRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Email       *string `json:"email" validate:"omitempty,email,max=120"`
	City        *string `json:"city" validate:"omitempty,max=80"`
	BaptismName *string `json:"baptism_name" validate:"omitempty,max=120"`

	PreferredLanguage      *string `json:"preferred_language" validate:"omitempty,oneof=en am ti"`
	PreferredPaymentMethod *string `json:"preferred_payment_method" validate:"omitempty,oneof=bank_transfer cash card"`

	ChurchID         *string `json:"church_id" validate:"omitempty,uuid4"`
	RepresentativeID *string `json:"representative_id" validate:"omitempty,uuid4"`

	SmsOptIn           *bool   `json:"sms_opt_in"`
	FlaggedForFollowup *bool   `json:"flagged_for_followup"`
	AdminNotes         *string `json:"admin_notes"`
}

// UpdateFinancialsRequest drives the manual reconciliation mode. Balance nil
// derives max(0, pledged-paid); AutoStatus opts in to status rederivation.
type UpdateFinancialsRequest struct {
	TotalPledged decimal.Decimal  `json:"total_pledged"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	Balance      *decimal.Decimal `json:"balance"`
	AutoStatus   bool             `json:"auto_status"`
}
