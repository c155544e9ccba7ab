// file: internals/features/donors/reconciliation/service/reconcile_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	auditService "tesfa_backend/internals/features/audit/service"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	planModel "tesfa_backend/internals/features/finance/payment_plans/model"
	paymentModel "tesfa_backend/internals/features/finance/payments/model"
	pledgeModel "tesfa_backend/internals/features/finance/pledges/model"
	"tesfa_backend/internals/helpers/apperr"
	"tesfa_backend/internals/helpers/dbutil"
)

type Mode string

const (
	ModeManual      Mode = "manual"
	ModeRecalculate Mode = "recalculate"
)

// ManualValues are staff-supplied figures for manual mode. Balance nil means
// derive it from pledged-paid. AutoStatus opts in to status derivation.
type ManualValues struct {
	TotalPledged decimal.Decimal
	TotalPaid    decimal.Decimal
	Balance      *decimal.Decimal
	AutoStatus   bool
}

/* ===============================
   Pure derivation rules
=================================*/

// ClampBalance returns max(0, pledged-paid). The stored balance is never
// negative, including under manual overrides where paid > pledged.
func ClampBalance(pledged, paid decimal.Decimal) decimal.Decimal {
	bal := pledged.Sub(paid)
	if bal.IsNegative() {
		return decimal.Zero
	}
	return bal
}

// DeriveStatus classifies (pledged, paid) into a payment status. It never
// returns overdue/defaulted; those are set by the plan lateness check.
func DeriveStatus(pledged, paid decimal.Decimal) string {
	switch {
	case pledged.IsZero() && paid.IsZero():
		return donorModel.PaymentStatusNoPledge
	case paid.IsZero():
		return donorModel.PaymentStatusNotStarted
	case paid.GreaterThanOrEqual(pledged) && pledged.IsPositive():
		return donorModel.PaymentStatusCompleted
	case pledged.IsZero():
		// paid with no approved pledge: treat as completed instant giving
		return donorModel.PaymentStatusCompleted
	default:
		return donorModel.PaymentStatusPaying
	}
}

// DeriveBadge maps the paid/pledged ratio onto the achievement badge.
// aheadOfSchedule marks a donor who finished while their plan still had
// installments remaining.
func DeriveBadge(pledged, paid decimal.Decimal, aheadOfSchedule bool) string {
	if paid.IsZero() {
		return donorModel.BadgePending
	}
	if pledged.IsPositive() && paid.GreaterThanOrEqual(pledged) {
		if paid.GreaterThan(pledged) {
			return donorModel.BadgeChampion
		}
		if aheadOfSchedule {
			return donorModel.BadgeFastFinisher
		}
		return donorModel.BadgeCompleted
	}
	if pledged.IsPositive() && paid.Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(pledged) {
		return donorModel.BadgeOnTrack
	}
	return donorModel.BadgeStarted
}

/* ===============================
   Reconcile
=================================*/

// Reconcile recomputes and persists a donor's financial snapshot.
//
// manual mode: caller supplies the figures (each must be >= 0); status is
// rederived only when AutoStatus is set.
// recalculate mode: sums approved pledges, approved instant payments (by
// phone) and confirmed pledge payments (by donor id) from the ledger, then
// rederives status and badge.
//
// The donor row is locked, mutated and audit-logged in one transaction.
// Recalculate is idempotent: same ledger in, same snapshot out, one audit
// entry per call.
func Reconcile(db *gorm.DB, actorID *uuid.UUID, donorID uuid.UUID, mode Mode, manual *ManualValues) (*donorModel.FinancialSnapshot, error) {
	if mode != ModeManual && mode != ModeRecalculate {
		return nil, apperr.Validation("unknown reconcile mode %q", mode)
	}
	if mode == ModeManual {
		if manual == nil {
			return nil, apperr.Validation("manual mode requires values")
		}
		if manual.TotalPledged.IsNegative() || manual.TotalPaid.IsNegative() {
			return nil, apperr.Validation("amounts must not be negative")
		}
		if manual.Balance != nil && manual.Balance.IsNegative() {
			return nil, apperr.Validation("balance must not be negative")
		}
	}

	var out donorModel.FinancialSnapshot

	err := db.Transaction(func(tx *gorm.DB) error {
		var donor donorModel.Donor
		if err := dbutil.LockForUpdate(tx).
			First(&donor, "donor_id = ?", donorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("donor not found")
			}
			return apperr.Persistence(err)
		}

		before := donor.Snapshot()

		var pledged, paid decimal.Decimal
		switch mode {
		case ModeManual:
			pledged = manual.TotalPledged
			paid = manual.TotalPaid
		case ModeRecalculate:
			var err error
			pledged, paid, err = ledgerTotals(tx, &donor)
			if err != nil {
				return err
			}
		}

		donor.DonorTotalPledged = pledged
		donor.DonorTotalPaid = paid
		if mode == ModeManual && manual.Balance != nil {
			donor.DonorBalance = *manual.Balance
		} else {
			donor.DonorBalance = ClampBalance(pledged, paid)
		}

		if mode == ModeRecalculate || manual.AutoStatus {
			derived := DeriveStatus(pledged, paid)
			// A lateness flag set by the plan check survives recalculation
			// unless the donor has since caught up or completed.
			lateness := donor.DonorPaymentStatus == donorModel.PaymentStatusOverdue ||
				donor.DonorPaymentStatus == donorModel.PaymentStatusDefaulted
			if !(lateness && derived == donorModel.PaymentStatusPaying) {
				donor.DonorPaymentStatus = derived
			}
			donor.DonorAchievementBadge = DeriveBadge(pledged, paid, aheadOfSchedule(tx, &donor))
		}

		if err := tx.Save(&donor).Error; err != nil {
			return apperr.Persistence(err)
		}

		after := donor.Snapshot()
		entry := map[string]any{
			"snapshot": after,
			"mode":     string(mode),
		}
		if err := auditService.Record(tx, actorID, "donor", donor.DonorID.String(),
			"financial_update", before, entry, "admin"); err != nil {
			return err
		}

		out = after
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ledgerTotals sums the ground-truth rows: approved pledges by donor id,
// approved instant payments by donor phone, confirmed pledge payments by
// donor id.
func ledgerTotals(tx *gorm.DB, donor *donorModel.Donor) (pledged, paid decimal.Decimal, err error) {
	pledged, err = sumAmount(tx.Model(&pledgeModel.Pledge{}).
		Where("pledge_donor_id = ?", donor.DonorID).
		Where("pledge_status = ?", pledgeModel.PledgeStatusApproved),
		"pledge_amount")
	if err != nil {
		return
	}

	instant, err2 := sumAmount(tx.Model(&paymentModel.InstantPayment{}).
		Where("payment_donor_phone = ?", donor.DonorPhone).
		Where("payment_status = ?", paymentModel.InstantStatusApproved),
		"payment_amount")
	if err2 != nil {
		err = err2
		return
	}

	linked, err3 := sumAmount(tx.Model(&paymentModel.PledgePayment{}).
		Where("pledge_payment_donor_id = ?", donor.DonorID).
		Where("pledge_payment_status = ?", paymentModel.PledgePaymentStatusConfirmed),
		"pledge_payment_amount")
	if err3 != nil {
		err = err3
		return
	}

	paid = instant.Add(linked)
	return
}

func sumAmount(q *gorm.DB, col string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := q.Select("COALESCE(SUM(" + col + "), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, apperr.Persistence(err)
	}
	return row.Total, nil
}

// aheadOfSchedule: the donor's active plan still has installments remaining.
func aheadOfSchedule(tx *gorm.DB, donor *donorModel.Donor) bool {
	if !donor.DonorHasActivePlan || donor.DonorActivePaymentPlanID == nil {
		return false
	}
	var plan planModel.DonorPaymentPlan
	if err := tx.First(&plan, "plan_id = ?", donor.DonorActivePaymentPlanID).Error; err != nil {
		return false
	}
	return plan.PlanPaymentsMade < plan.PlanDurationMonths
}
