package dto

import "github.com/shopspring/decimal"

type CreatePlanRequest struct {
	DonorID         string          `json:"donor_id" validate:"required,uuid4"`
	PledgeID        *string         `json:"pledge_id" validate:"omitempty,uuid4"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount" validate:"required"`
	DurationMonths  int             `json:"duration_months" validate:"required,min=1,max=120"`
	StartDate       string          `json:"start_date" validate:"required"` // YYYY-MM-DD
	PaymentDay      int             `json:"payment_day" validate:"required,min=1,max=28"`
	Method          string          `json:"method" validate:"omitempty,oneof=bank_transfer cash card"`
	FrequencyUnit   string          `json:"frequency_unit" validate:"omitempty,oneof=week month year"`
	FrequencyNumber int             `json:"frequency_number" validate:"omitempty,min=1,max=12"`
}

type SetPlanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
