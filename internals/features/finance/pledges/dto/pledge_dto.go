package dto

import "github.com/shopspring/decimal"

type CreatePledgeRequest struct {
	DonorID string          `json:"donor_id" validate:"required,uuid4"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Notes   string          `json:"notes"`
}

type UpdatePledgeRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Notes  *string          `json:"notes"`
}

type SetPledgeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected cancelled"`
}
