// file: internals/features/finance/payments/service/unified_service.go
package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	donorModel "tesfa_backend/internals/features/donors/donors/model"
	"tesfa_backend/internals/features/finance/payments/model"
	"tesfa_backend/internals/helpers/apperr"
)

/* ===============================
   Unified payment view
=================================*/

// Two physical tables back one logical "payment": instant payments keyed by
// donor phone and pledge payments keyed by donor id. Rather than aliasing
// columns in a UNION ALL, each row is projected into a tagged variant with
// the shared display fields.

const (
	KindInstant = "instant"
	KindPledge  = "pledge"
)

type UnifiedPayment struct {
	Kind            string          `json:"kind"` // instant | pledge
	ID              uuid.UUID       `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	Date            *time.Time      `json:"date,omitempty"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	PledgeID        *uuid.UUID      `json:"pledge_id,omitempty"`
	PlanID          *uuid.UUID      `json:"plan_id,omitempty"`
	Proof           string          `json:"proof,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func FromInstant(p model.InstantPayment) UnifiedPayment {
	return UnifiedPayment{
		Kind:            KindInstant,
		ID:              p.PaymentID,
		Amount:          p.PaymentAmount,
		Method:          p.PaymentMethod,
		Status:          p.PaymentStatus,
		Date:            p.PaymentDate,
		ReferenceNumber: p.PaymentReferenceNumber,
		Notes:           p.PaymentNotes,
		CreatedAt:       p.CreatedAt,
	}
}

func FromPledgePayment(p model.PledgePayment) UnifiedPayment {
	pledgeID := p.PledgePaymentPledgeID
	return UnifiedPayment{
		Kind:            KindPledge,
		ID:              p.PledgePaymentID,
		Amount:          p.PledgePaymentAmount,
		Method:          p.PledgePaymentMethod,
		Status:          p.PledgePaymentStatus,
		Date:            p.PledgePaymentDate,
		ReferenceNumber: p.PledgePaymentReferenceNumber,
		Notes:           p.PledgePaymentNotes,
		PledgeID:        &pledgeID,
		PlanID:          p.PledgePaymentPlanID,
		Proof:           p.PledgePaymentProof,
		CreatedAt:       p.CreatedAt,
	}
}

// ListForDonor merges both tables for one donor, newest first. CountsToward
// rules are not applied here; this is the full history view.
func ListForDonor(db *gorm.DB, donor *donorModel.Donor) ([]UnifiedPayment, error) {
	var instants []model.InstantPayment
	if err := db.
		Where("payment_donor_phone = ?", donor.DonorPhone).
		Find(&instants).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	var linked []model.PledgePayment
	if err := db.
		Where("pledge_payment_donor_id = ?", donor.DonorID).
		Find(&linked).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	out := make([]UnifiedPayment, 0, len(instants)+len(linked))
	for _, p := range instants {
		out = append(out, FromInstant(p))
	}
	for _, p := range linked {
		out = append(out, FromPledgePayment(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
