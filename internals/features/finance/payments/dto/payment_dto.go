package dto

import "github.com/shopspring/decimal"

// Create/edit bodies arrive either as JSON or as a multipart form when a
// proof file rides along, so fields carry both tags.

type CreatePledgePaymentRequest struct {
	DonorID         string          `json:"donor_id" form:"donor_id" validate:"required,uuid4"`
	PledgeID        string          `json:"pledge_id" form:"pledge_id" validate:"required,uuid4"`
	PlanID          *string         `json:"plan_id" form:"plan_id" validate:"omitempty,uuid4"`
	Amount          decimal.Decimal `json:"amount" form:"amount" validate:"required"`
	Method          string          `json:"method" form:"method" validate:"omitempty,oneof=bank_transfer cash card"`
	PaymentDate     string          `json:"payment_date" form:"payment_date"` // YYYY-MM-DD
	ReferenceNumber string          `json:"reference_number" form:"reference_number" validate:"max=50"`
	Notes           string          `json:"notes" form:"notes"`
}

type EditPledgePaymentRequest struct {
	PaymentDate      *string `json:"payment_date" form:"payment_date"` // YYYY-MM-DD
	ApprovedByUserID *string `json:"approved_by_user_id" form:"approved_by_user_id" validate:"omitempty,uuid4"`
	ReferenceNumber  *string `json:"reference_number" form:"reference_number" validate:"omitempty,max=50"`
	Notes            *string `json:"notes" form:"notes"`
}

type CreateInstantPaymentRequest struct {
	DonorPhone      string          `json:"donor_phone" form:"donor_phone" validate:"required,max=30"`
	Amount          decimal.Decimal `json:"amount" form:"amount" validate:"required"`
	Method          string          `json:"method" form:"method" validate:"omitempty,oneof=bank_transfer cash card"`
	PaymentDate     string          `json:"payment_date" form:"payment_date"`
	ReferenceNumber string          `json:"reference_number" form:"reference_number" validate:"max=50"`
	Notes           string          `json:"notes" form:"notes"`
}
