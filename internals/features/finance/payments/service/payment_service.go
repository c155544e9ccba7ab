// file: internals/features/finance/payments/service/payment_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "tesfa_backend/internals/features/audit/service"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	reconService "tesfa_backend/internals/features/donors/reconciliation/service"
	planService "tesfa_backend/internals/features/finance/payment_plans/service"
	"tesfa_backend/internals/features/finance/payments/model"
	"tesfa_backend/internals/helpers/apperr"
	"tesfa_backend/internals/helpers/dbutil"
)

/* ===============================
   Reviewer actions
=================================*/

// ConfirmPledgePayment moves a pending payment to confirmed, stamps the
// approver, advances the linked plan counters when present, and recalculates
// the donor snapshot. One outer transaction covers all of it.
func ConfirmPledgePayment(db *gorm.DB, actorID *uuid.UUID, paymentID uuid.UUID) (*model.PledgePayment, error) {
	var updated model.PledgePayment

	err := db.Transaction(func(tx *gorm.DB) error {
		var payment model.PledgePayment
		if err := dbutil.LockForUpdate(tx).
			First(&payment, "pledge_payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return apperr.Persistence(err)
		}
		if payment.PledgePaymentStatus != model.PledgePaymentStatusPending {
			return apperr.Conflict("only pending payments can be confirmed")
		}

		before := payment
		now := time.Now()
		payment.PledgePaymentStatus = model.PledgePaymentStatusConfirmed
		payment.PledgePaymentApprovedByUserID = actorID
		payment.PledgePaymentApprovedAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return apperr.Persistence(err)
		}

		if payment.PledgePaymentPlanID != nil {
			if err := planService.ApplyConfirmedPayment(tx, *payment.PledgePaymentPlanID, payment.PledgePaymentAmount); err != nil {
				return err
			}
		}

		if err := auditService.Record(tx, actorID, "pledge_payment",
			payment.PledgePaymentID.String(), "confirm", before, payment, "admin"); err != nil {
			return err
		}

		if _, err := reconService.Reconcile(tx, actorID, payment.PledgePaymentDonorID,
			reconService.ModeRecalculate, nil); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// VoidPledgePayment voids a pending or confirmed payment and recalculates
// the donor snapshot so the voided amount stops counting.
func VoidPledgePayment(db *gorm.DB, actorID *uuid.UUID, paymentID uuid.UUID) (*model.PledgePayment, error) {
	var updated model.PledgePayment

	err := db.Transaction(func(tx *gorm.DB) error {
		var payment model.PledgePayment
		if err := dbutil.LockForUpdate(tx).
			First(&payment, "pledge_payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return apperr.Persistence(err)
		}
		if payment.PledgePaymentStatus == model.PledgePaymentStatusVoided {
			return apperr.Conflict("payment is already voided")
		}

		before := payment
		now := time.Now()
		payment.PledgePaymentStatus = model.PledgePaymentStatusVoided
		payment.PledgePaymentVoidedByUserID = actorID
		payment.PledgePaymentVoidedAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := auditService.Record(tx, actorID, "pledge_payment",
			payment.PledgePaymentID.String(), "void", before, payment, "admin"); err != nil {
			return err
		}

		if _, err := reconService.Reconcile(tx, actorID, payment.PledgePaymentDonorID,
			reconService.ModeRecalculate, nil); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

/* ===============================
   Edit / delete
=================================*/

type EditPledgePaymentInput struct {
	PaymentDate      *time.Time
	ApprovedByUserID *uuid.UUID
	ReferenceNumber  *string
	Notes            *string
	ProofPath        *string // already validated; file is written post-commit
}

// EditPledgePayment updates the editable fields and returns the replaced
// proof path (if any) so the caller can remove the old file after commit.
func EditPledgePayment(db *gorm.DB, actorID *uuid.UUID, paymentID uuid.UUID, in EditPledgePaymentInput) (*model.PledgePayment, string, error) {
	var updated model.PledgePayment
	var replacedProof string

	err := db.Transaction(func(tx *gorm.DB) error {
		var payment model.PledgePayment
		if err := dbutil.LockForUpdate(tx).
			First(&payment, "pledge_payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return apperr.Persistence(err)
		}

		before := payment
		if in.PaymentDate != nil {
			payment.PledgePaymentDate = in.PaymentDate
		}
		if in.ApprovedByUserID != nil {
			payment.PledgePaymentApprovedByUserID = in.ApprovedByUserID
		}
		if in.ReferenceNumber != nil {
			payment.PledgePaymentReferenceNumber = *in.ReferenceNumber
		}
		if in.Notes != nil {
			payment.PledgePaymentNotes = *in.Notes
		}
		if in.ProofPath != nil {
			if payment.PledgePaymentProof != "" && payment.PledgePaymentProof != *in.ProofPath {
				replacedProof = payment.PledgePaymentProof
			}
			payment.PledgePaymentProof = *in.ProofPath
		}

		if err := tx.Save(&payment).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := auditService.Record(tx, actorID, "pledge_payment",
			payment.PledgePaymentID.String(), "edit", before, payment, "admin"); err != nil {
			return err
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &updated, replacedProof, nil
}

// DeletePledgePayment removes a payment row. Hard safety rule: only voided
// payments may be deleted; the precondition runs before any DELETE. The
// audit entry carries the full pre-delete snapshot.
func DeletePledgePayment(db *gorm.DB, actorID *uuid.UUID, paymentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment model.PledgePayment
		if err := dbutil.LockForUpdate(tx).
			First(&payment, "pledge_payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return apperr.Persistence(err)
		}
		if payment.PledgePaymentStatus != model.PledgePaymentStatusVoided {
			return apperr.Conflict("only voided payments can be deleted")
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return apperr.Persistence(err)
		}

		return auditService.Record(tx, actorID, "pledge_payment",
			payment.PledgePaymentID.String(), "delete", payment, nil, "admin")
	})
}

/* ===============================
   Instant payments
=================================*/

// ReviewInstantPayment approves or rejects a pending instant payment and
// recalculates the owning donor (matched by phone) when one exists.
func ReviewInstantPayment(db *gorm.DB, actorID *uuid.UUID, paymentID uuid.UUID, approve bool) (*model.InstantPayment, error) {
	var updated model.InstantPayment

	err := db.Transaction(func(tx *gorm.DB) error {
		var payment model.InstantPayment
		if err := dbutil.LockForUpdate(tx).
			First(&payment, "payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return apperr.Persistence(err)
		}
		if payment.PaymentStatus != model.InstantStatusPending {
			return apperr.Conflict("only pending payments can be reviewed")
		}

		before := payment
		action := "reject"
		payment.PaymentStatus = model.InstantStatusRejected
		if approve {
			action = "approve"
			payment.PaymentStatus = model.InstantStatusApproved
		}
		if err := tx.Save(&payment).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := auditService.Record(tx, actorID, "payment",
			payment.PaymentID.String(), action, before, payment, "admin"); err != nil {
			return err
		}

		// Unregistered walk-in phones have no donor row; that is fine.
		var donor donorModel.Donor
		err := tx.Where("donor_phone = ?", payment.PaymentDonorPhone).First(&donor).Error
		if err == nil {
			if _, err := reconService.Reconcile(tx, actorID, donor.DonorID,
				reconService.ModeRecalculate, nil); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Persistence(err)
		}

		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
