// file: internals/features/finance/payment_plans/service/plan_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	auditService "tesfa_backend/internals/features/audit/service"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	"tesfa_backend/internals/features/finance/payment_plans/model"
	"tesfa_backend/internals/helpers/apperr"
	"tesfa_backend/internals/helpers/dbutil"
)

// CreatePlanInput is the requested installment schedule.
type CreatePlanInput struct {
	DonorID         uuid.UUID
	PledgeID        *uuid.UUID
	MonthlyAmount   decimal.Decimal
	DurationMonths  int
	StartDate       time.Time
	PaymentDay      int // 1..28 so short months always have the day
	Method          string
	FrequencyUnit   string
	FrequencyNumber int
}

/* ===============================
   Due-date computation
=================================*/

// FirstDueDate replaces start's day-of-month with paymentDay; if that date
// falls before start, the due date advances one calendar month.
func FirstDueDate(start time.Time, paymentDay int) time.Time {
	due := time.Date(start.Year(), start.Month(), paymentDay, 0, 0, 0, 0, start.Location())
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if due.Before(startDay) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

/* ===============================
   Create
=================================*/

// CreatePlan inserts an active plan, mirrors the schedule onto the donor row
// and audit-logs the creation, all in one transaction. A donor with an
// existing active plan is rejected with a conflict.
func CreatePlan(db *gorm.DB, actorID *uuid.UUID, in CreatePlanInput) (*model.DonorPaymentPlan, error) {
	if !in.MonthlyAmount.IsPositive() {
		return nil, apperr.Validation("monthly amount must be greater than zero")
	}
	if in.DurationMonths < 1 {
		return nil, apperr.Validation("duration must be at least 1 month")
	}
	if in.PaymentDay < 1 || in.PaymentDay > 28 {
		return nil, apperr.Validation("payment day must be between 1 and 28")
	}
	if in.FrequencyUnit == "" {
		in.FrequencyUnit = model.FrequencyMonth
	}
	switch in.FrequencyUnit {
	case model.FrequencyWeek, model.FrequencyMonth, model.FrequencyYear:
	default:
		return nil, apperr.Validation("unknown frequency unit %q", in.FrequencyUnit)
	}
	if in.FrequencyNumber < 1 {
		in.FrequencyNumber = 1
	}

	var created model.DonorPaymentPlan

	err := db.Transaction(func(tx *gorm.DB) error {
		var donor donorModel.Donor
		if err := dbutil.LockForUpdate(tx).
			First(&donor, "donor_id = ?", in.DonorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("donor not found")
			}
			return apperr.Persistence(err)
		}

		var activeCount int64
		if err := tx.Model(&model.DonorPaymentPlan{}).
			Where("plan_donor_id = ?", in.DonorID).
			Where("plan_status = ?", model.PlanStatusActive).
			Count(&activeCount).Error; err != nil {
			return apperr.Persistence(err)
		}
		if activeCount > 0 {
			return apperr.Conflict("donor already has an active payment plan")
		}

		totalAmount := in.MonthlyAmount.Mul(decimal.NewFromInt(int64(in.DurationMonths)))
		firstDue := FirstDueDate(in.StartDate, in.PaymentDay)

		plan := model.DonorPaymentPlan{
			PlanID:              uuid.New(),
			PlanDonorID:         in.DonorID,
			PlanPledgeID:        in.PledgeID,
			PlanMonthlyAmount:   in.MonthlyAmount,
			PlanDurationMonths:  in.DurationMonths,
			PlanTotalAmount:     totalAmount,
			PlanAmountPaid:      decimal.Zero,
			PlanBalance:         totalAmount,
			PlanStatus:          model.PlanStatusActive,
			PlanStartDate:       in.StartDate,
			PlanNextPaymentDue:  &firstDue,
			PlanPaymentDay:      in.PaymentDay,
			PlanPreferredMethod: in.Method,
			PlanFrequencyUnit:   in.FrequencyUnit,
			PlanFrequencyNumber: in.FrequencyNumber,
			PlanCreatedByUserID: actorID,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return apperr.Persistence(err)
		}

		// Mirror the schedule onto the donor row for fast list display.
		durationMonths := in.DurationMonths
		monthlyAmount := in.MonthlyAmount
		startDate := in.StartDate
		donor.DonorHasActivePlan = true
		donor.DonorActivePaymentPlanID = &plan.PlanID
		donor.DonorPlanMonthlyAmount = &monthlyAmount
		donor.DonorPlanDurationMonths = &durationMonths
		donor.DonorPlanStartDate = &startDate
		donor.DonorPlanNextDueDate = &firstDue
		if err := tx.Save(&donor).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := auditService.Record(tx, actorID, "payment_plan",
			plan.PlanID.String(), "create", nil, plan, "admin"); err != nil {
			return err
		}

		created = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

/* ===============================
   Status change
=================================*/

// SetStatus persists a status transition. Moving into cancelled/completed
// clears the donor's active-plan fields; moving back to active re-sets them.
// Other transitions (e.g. active→paused) touch only the plan row.
func SetStatus(db *gorm.DB, actorID *uuid.UUID, planID uuid.UUID, newStatus string) (*model.DonorPaymentPlan, error) {
	if !model.ValidPlanStatus(newStatus) {
		return nil, apperr.Validation("unknown plan status %q", newStatus)
	}

	var updated model.DonorPaymentPlan

	err := db.Transaction(func(tx *gorm.DB) error {
		var plan model.DonorPaymentPlan
		if err := dbutil.LockForUpdate(tx).
			First(&plan, "plan_id = ?", planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment plan not found")
			}
			return apperr.Persistence(err)
		}

		before := plan
		oldStatus := plan.PlanStatus
		plan.PlanStatus = newStatus
		if err := tx.Save(&plan).Error; err != nil {
			return apperr.Persistence(err)
		}

		// Donor side effects are keyed off the transition, not the raw save.
		switch {
		case newStatus == model.PlanStatusCancelled || newStatus == model.PlanStatusCompleted:
			if err := clearDonorPlan(tx, plan.PlanDonorID, plan.PlanID); err != nil {
				return err
			}
		case newStatus == model.PlanStatusActive && oldStatus != model.PlanStatusActive:
			if err := reattachDonorPlan(tx, &plan); err != nil {
				return err
			}
		}

		if err := auditService.Record(tx, actorID, "payment_plan",
			plan.PlanID.String(), "status_change", before, plan, "admin"); err != nil {
			return err
		}

		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func clearDonorPlan(tx *gorm.DB, donorID, planID uuid.UUID) error {
	var donor donorModel.Donor
	if err := dbutil.LockForUpdate(tx).
		First(&donor, "donor_id = ?", donorID).Error; err != nil {
		return apperr.Persistence(err)
	}
	// Only clear when this plan is the one the donor points at.
	if donor.DonorActivePaymentPlanID == nil || *donor.DonorActivePaymentPlanID != planID {
		return nil
	}
	donor.DonorHasActivePlan = false
	donor.DonorActivePaymentPlanID = nil
	donor.DonorPlanMonthlyAmount = nil
	donor.DonorPlanDurationMonths = nil
	donor.DonorPlanStartDate = nil
	donor.DonorPlanNextDueDate = nil
	if err := tx.Save(&donor).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func reattachDonorPlan(tx *gorm.DB, plan *model.DonorPaymentPlan) error {
	// A different plan must not already be active for this donor.
	var activeCount int64
	if err := tx.Model(&model.DonorPaymentPlan{}).
		Where("plan_donor_id = ?", plan.PlanDonorID).
		Where("plan_status = ?", model.PlanStatusActive).
		Where("plan_id <> ?", plan.PlanID).
		Count(&activeCount).Error; err != nil {
		return apperr.Persistence(err)
	}
	if activeCount > 0 {
		return apperr.Conflict("donor already has another active payment plan")
	}

	var donor donorModel.Donor
	if err := dbutil.LockForUpdate(tx).
		First(&donor, "donor_id = ?", plan.PlanDonorID).Error; err != nil {
		return apperr.Persistence(err)
	}
	monthlyAmount := plan.PlanMonthlyAmount
	durationMonths := plan.PlanDurationMonths
	startDate := plan.PlanStartDate
	donor.DonorHasActivePlan = true
	donor.DonorActivePaymentPlanID = &plan.PlanID
	donor.DonorPlanMonthlyAmount = &monthlyAmount
	donor.DonorPlanDurationMonths = &durationMonths
	donor.DonorPlanStartDate = &startDate
	donor.DonorPlanNextDueDate = plan.PlanNextPaymentDue
	if err := tx.Save(&donor).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

/* ===============================
   Installment progress
=================================*/

// ApplyConfirmedPayment advances the stored plan counters for a confirmed
// payment. The stored payments_made counter is the single source of truth;
// it advances only when cumulative paid covers another full installment, so
// partial payments never inflate it.
func ApplyConfirmedPayment(tx *gorm.DB, planID uuid.UUID, amount decimal.Decimal) error {
	var plan model.DonorPaymentPlan
	if err := dbutil.LockForUpdate(tx).
		First(&plan, "plan_id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("payment plan not found")
		}
		return apperr.Persistence(err)
	}

	plan.PlanAmountPaid = plan.PlanAmountPaid.Add(amount)
	plan.PlanBalance = plan.PlanTotalAmount.Sub(plan.PlanAmountPaid)
	if plan.PlanBalance.IsNegative() {
		plan.PlanBalance = decimal.Zero
	}

	// Advance the counter only for fully covered installments.
	covered := int(plan.PlanAmountPaid.Div(plan.PlanMonthlyAmount).IntPart())
	if covered > plan.PlanDurationMonths {
		covered = plan.PlanDurationMonths
	}
	if covered > plan.PlanPaymentsMade {
		plan.PlanPaymentsMade = covered
		if plan.PlanNextPaymentDue != nil {
			next := advancePeriod(*plan.PlanNextPaymentDue, plan.PlanFrequencyUnit, plan.PlanFrequencyNumber)
			plan.PlanNextPaymentDue = &next
		}
	}

	if plan.PlanAmountPaid.GreaterThanOrEqual(plan.PlanTotalAmount) {
		plan.PlanStatus = model.PlanStatusCompleted
		plan.PlanNextPaymentDue = nil
	}

	if err := tx.Save(&plan).Error; err != nil {
		return apperr.Persistence(err)
	}

	if plan.PlanStatus == model.PlanStatusCompleted {
		return clearDonorPlan(tx, plan.PlanDonorID, plan.PlanID)
	}
	return nil
}

func advancePeriod(t time.Time, unit string, n int) time.Time {
	if n < 1 {
		n = 1
	}
	switch unit {
	case model.FrequencyWeek:
		return t.AddDate(0, 0, 7*n)
	case model.FrequencyYear:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}
