package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditModel "tesfa_backend/internals/features/audit/model"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	planModel "tesfa_backend/internals/features/finance/payment_plans/model"
	"tesfa_backend/internals/features/finance/payments/model"
	pledgeModel "tesfa_backend/internals/features/finance/pledges/model"
	"tesfa_backend/internals/helpers/apperr"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&donorModel.Donor{},
		&pledgeModel.Pledge{},
		&model.InstantPayment{},
		&model.PledgePayment{},
		&planModel.DonorPaymentPlan{},
		&auditModel.AuditLog{},
	))
	return db
}

func seedDonorWithPayment(t *testing.T, db *gorm.DB, seq int64, status string) (donorModel.Donor, model.PledgePayment) {
	t.Helper()
	donor := donorModel.Donor{
		DonorID:    uuid.New(),
		DonorSeq:   seq,
		DonorName:  "Hiwot Bekele",
		DonorPhone: "+25193300" + uuid.NewString()[:4],
	}
	require.NoError(t, db.Create(&donor).Error)

	payment := model.PledgePayment{
		PledgePaymentID:       uuid.New(),
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: uuid.New(),
		PledgePaymentAmount:   decimal.NewFromInt(200),
		PledgePaymentStatus:   status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return donor, payment
}

func TestConfirmPendingPayment(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()
	donor, payment := seedDonorWithPayment(t, db, 1, model.PledgePaymentStatusPending)

	updated, err := ConfirmPledgePayment(db, &actor, payment.PledgePaymentID)
	require.NoError(t, err)
	require.Equal(t, model.PledgePaymentStatusConfirmed, updated.PledgePaymentStatus)
	require.NotNil(t, updated.PledgePaymentApprovedAt)
	require.Equal(t, actor, *updated.PledgePaymentApprovedByUserID)

	// donor snapshot picked up the confirmed amount
	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.Equal(t, "200", got.DonorTotalPaid.String())

	// a second confirm is a conflict
	_, err = ConfirmPledgePayment(db, &actor, payment.PledgePaymentID)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestVoidRemovesAmountFromSnapshot(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()
	donor, payment := seedDonorWithPayment(t, db, 2, model.PledgePaymentStatusPending)

	_, err := ConfirmPledgePayment(db, &actor, payment.PledgePaymentID)
	require.NoError(t, err)

	updated, err := VoidPledgePayment(db, &actor, payment.PledgePaymentID)
	require.NoError(t, err)
	require.Equal(t, model.PledgePaymentStatusVoided, updated.PledgePaymentStatus)
	require.NotNil(t, updated.PledgePaymentVoidedAt)

	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.True(t, got.DonorTotalPaid.IsZero())

	_, err = VoidPledgePayment(db, &actor, payment.PledgePaymentID)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteRequiresVoidedStatus(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()
	_, confirmed := seedDonorWithPayment(t, db, 3, model.PledgePaymentStatusConfirmed)

	// confirmed payments cannot be deleted, and the row must survive
	err := DeletePledgePayment(db, &actor, confirmed.PledgePaymentID)
	require.ErrorIs(t, err, apperr.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.PledgePayment{}).
		Where("pledge_payment_id = ?", confirmed.PledgePaymentID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	// void first, then delete succeeds
	_, err = VoidPledgePayment(db, &actor, confirmed.PledgePaymentID)
	require.NoError(t, err)
	require.NoError(t, DeletePledgePayment(db, &actor, confirmed.PledgePaymentID))

	require.NoError(t, db.Model(&model.PledgePayment{}).
		Where("pledge_payment_id = ?", confirmed.PledgePaymentID).
		Count(&count).Error)
	require.Zero(t, count)

	// the delete audit entry carries the pre-delete snapshot
	var entry auditModel.AuditLog
	require.NoError(t, db.
		Where("audit_log_entity_id = ?", confirmed.PledgePaymentID.String()).
		Where("audit_log_action = ?", "delete").
		First(&entry).Error)
	require.NotEmpty(t, entry.AuditLogBefore)
	require.Empty(t, entry.AuditLogAfter)
}

func TestEditReturnsReplacedProof(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()
	_, payment := seedDonorWithPayment(t, db, 4, model.PledgePaymentStatusPending)
	payment.PledgePaymentProof = "uploads/proofs/proof_old.png"
	require.NoError(t, db.Save(&payment).Error)

	newProof := "uploads/proofs/proof_new.png"
	ref := "8421"
	updated, replaced, err := EditPledgePayment(db, &actor, payment.PledgePaymentID, EditPledgePaymentInput{
		ReferenceNumber: &ref,
		ProofPath:       &newProof,
	})
	require.NoError(t, err)
	require.Equal(t, "uploads/proofs/proof_old.png", replaced)
	require.Equal(t, newProof, updated.PledgePaymentProof)
	require.Equal(t, "8421", updated.PledgePaymentReferenceNumber)
}

func TestReviewInstantPaymentReconcilesByPhone(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()

	donor := donorModel.Donor{
		DonorID:    uuid.New(),
		DonorSeq:   5,
		DonorName:  "Selam Haile",
		DonorPhone: "+251911223344",
	}
	require.NoError(t, db.Create(&donor).Error)

	payment := model.InstantPayment{
		PaymentID:         uuid.New(),
		PaymentDonorPhone: donor.DonorPhone,
		PaymentAmount:     decimal.NewFromInt(75),
		PaymentStatus:     model.InstantStatusPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	updated, err := ReviewInstantPayment(db, &actor, payment.PaymentID, true)
	require.NoError(t, err)
	require.Equal(t, model.InstantStatusApproved, updated.PaymentStatus)

	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.Equal(t, "75", got.DonorTotalPaid.String())

	_, err = ReviewInstantPayment(db, &actor, payment.PaymentID, true)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestReviewInstantPaymentForWalkInPhone(t *testing.T) {
	db := openTestDB(t)
	actor := uuid.New()

	payment := model.InstantPayment{
		PaymentID:         uuid.New(),
		PaymentDonorPhone: "+251900000000",
		PaymentAmount:     decimal.NewFromInt(30),
		PaymentStatus:     model.InstantStatusPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	updated, err := ReviewInstantPayment(db, &actor, payment.PaymentID, false)
	require.NoError(t, err)
	require.Equal(t, model.InstantStatusRejected, updated.PaymentStatus)
}
