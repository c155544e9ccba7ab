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
	paymentModel "tesfa_backend/internals/features/finance/payments/model"
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
		&paymentModel.InstantPayment{},
		&paymentModel.PledgePayment{},
		&planModel.DonorPaymentPlan{},
		&auditModel.AuditLog{},
	))
	return db
}

func seedDonor(t *testing.T, db *gorm.DB, seq int64) donorModel.Donor {
	t.Helper()
	d := donorModel.Donor{
		DonorID:    uuid.New(),
		DonorSeq:   seq,
		DonorName:  "Alem Tesfaye",
		DonorPhone: "+25191100" + uuid.NewString()[:4],
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Primary keys come from the BeforeCreate hooks, so inserts work the same
// against postgres and the in-memory test driver.
func TestCreateAssignsIDs(t *testing.T) {
	db := openTestDB(t)

	donor := donorModel.Donor{
		DonorSeq:   77,
		DonorName:  "Rahel Abraha",
		DonorPhone: "+251911000077",
	}
	require.NoError(t, db.Create(&donor).Error)
	require.NotEqual(t, uuid.Nil, donor.DonorID)

	pledge := pledgeModel.Pledge{
		PledgeDonorID: donor.DonorID,
		PledgeAmount:  dec("100"),
	}
	require.NoError(t, db.Create(&pledge).Error)
	require.NotEqual(t, uuid.Nil, pledge.PledgeID)

	payment := paymentModel.PledgePayment{
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: pledge.PledgeID,
		PledgePaymentAmount:   dec("50"),
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NotEqual(t, uuid.Nil, payment.PledgePaymentID)
}

func TestDeriveStatusTable(t *testing.T) {
	cases := []struct {
		pledged, paid string
		want          string
	}{
		{"0", "0", donorModel.PaymentStatusNoPledge},
		{"500", "0", donorModel.PaymentStatusNotStarted},
		{"500", "200", donorModel.PaymentStatusPaying},
		{"500", "500", donorModel.PaymentStatusCompleted},
		{"100", "150", donorModel.PaymentStatusCompleted},
		{"0", "50", donorModel.PaymentStatusCompleted},
	}
	for _, tc := range cases {
		got := DeriveStatus(dec(tc.pledged), dec(tc.paid))
		require.Equalf(t, tc.want, got, "pledged=%s paid=%s", tc.pledged, tc.paid)
	}
}

func TestClampBalanceNeverNegative(t *testing.T) {
	require.True(t, ClampBalance(dec("100"), dec("150")).IsZero())
	require.True(t, ClampBalance(dec("0"), dec("50")).IsZero())
	require.Equal(t, "300", ClampBalance(dec("500"), dec("200")).String())
}

func TestDeriveBadge(t *testing.T) {
	require.Equal(t, donorModel.BadgePending, DeriveBadge(dec("500"), dec("0"), false))
	require.Equal(t, donorModel.BadgeStarted, DeriveBadge(dec("500"), dec("100"), false))
	require.Equal(t, donorModel.BadgeOnTrack, DeriveBadge(dec("500"), dec("250"), false))
	require.Equal(t, donorModel.BadgeCompleted, DeriveBadge(dec("500"), dec("500"), false))
	require.Equal(t, donorModel.BadgeFastFinisher, DeriveBadge(dec("500"), dec("500"), true))
	require.Equal(t, donorModel.BadgeChampion, DeriveBadge(dec("500"), dec("600"), false))
}

func TestReconcileRecalculateSumsLedger(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 1)

	require.NoError(t, db.Create(&pledgeModel.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donor.DonorID,
		PledgeAmount:  dec("1000"),
		PledgeStatus:  pledgeModel.PledgeStatusApproved,
	}).Error)
	// pending pledges never count
	require.NoError(t, db.Create(&pledgeModel.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donor.DonorID,
		PledgeAmount:  dec("400"),
		PledgeStatus:  pledgeModel.PledgeStatusPending,
	}).Error)
	require.NoError(t, db.Create(&paymentModel.InstantPayment{
		PaymentID:         uuid.New(),
		PaymentDonorPhone: donor.DonorPhone,
		PaymentAmount:     dec("100"),
		PaymentStatus:     paymentModel.InstantStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&paymentModel.PledgePayment{
		PledgePaymentID:       uuid.New(),
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: uuid.New(),
		PledgePaymentAmount:   dec("250"),
		PledgePaymentStatus:   paymentModel.PledgePaymentStatusConfirmed,
	}).Error)
	// voided rows never count
	require.NoError(t, db.Create(&paymentModel.PledgePayment{
		PledgePaymentID:       uuid.New(),
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: uuid.New(),
		PledgePaymentAmount:   dec("999"),
		PledgePaymentStatus:   paymentModel.PledgePaymentStatusVoided,
	}).Error)

	snap, err := Reconcile(db, nil, donor.DonorID, ModeRecalculate, nil)
	require.NoError(t, err)
	require.Equal(t, "1000", snap.TotalPledged.String())
	require.Equal(t, "350", snap.TotalPaid.String())
	require.Equal(t, "650", snap.Balance.String())
	require.Equal(t, donorModel.PaymentStatusPaying, snap.PaymentStatus)
}

func TestReconcileRecalculateIdempotent(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 2)

	require.NoError(t, db.Create(&pledgeModel.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donor.DonorID,
		PledgeAmount:  dec("600"),
		PledgeStatus:  pledgeModel.PledgeStatusApproved,
	}).Error)

	first, err := Reconcile(db, nil, donor.DonorID, ModeRecalculate, nil)
	require.NoError(t, err)
	second, err := Reconcile(db, nil, donor.DonorID, ModeRecalculate, nil)
	require.NoError(t, err)
	require.Equal(t, first.TotalPledged.String(), second.TotalPledged.String())
	require.Equal(t, first.TotalPaid.String(), second.TotalPaid.String())
	require.Equal(t, first.Balance.String(), second.Balance.String())
	require.Equal(t, first.PaymentStatus, second.PaymentStatus)

	// one audit entry per call, even when nothing changed
	var audits int64
	require.NoError(t, db.Model(&auditModel.AuditLog{}).
		Where("audit_log_entity_id = ?", donor.DonorID.String()).
		Count(&audits).Error)
	require.EqualValues(t, 2, audits)
}

func TestReconcileManualClampsBalance(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 3)

	snap, err := Reconcile(db, nil, donor.DonorID, ModeManual, &ManualValues{
		TotalPledged: dec("100"),
		TotalPaid:    dec("150"),
		AutoStatus:   true,
	})
	require.NoError(t, err)
	require.True(t, snap.Balance.IsZero())
	require.Equal(t, donorModel.PaymentStatusCompleted, snap.PaymentStatus)
}

func TestReconcileManualRejectsNegatives(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 4)

	_, err := Reconcile(db, nil, donor.DonorID, ModeManual, &ManualValues{
		TotalPledged: dec("-1"),
		TotalPaid:    dec("0"),
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	// nothing was written
	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.True(t, got.DonorTotalPledged.IsZero())
}

func TestReconcilePreservesLatenessWhileStillPaying(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 5)
	donor.DonorPaymentStatus = donorModel.PaymentStatusOverdue
	require.NoError(t, db.Save(&donor).Error)

	require.NoError(t, db.Create(&pledgeModel.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donor.DonorID,
		PledgeAmount:  dec("1000"),
		PledgeStatus:  pledgeModel.PledgeStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&paymentModel.PledgePayment{
		PledgePaymentID:       uuid.New(),
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: uuid.New(),
		PledgePaymentAmount:   dec("200"),
		PledgePaymentStatus:   paymentModel.PledgePaymentStatusConfirmed,
	}).Error)

	snap, err := Reconcile(db, nil, donor.DonorID, ModeRecalculate, nil)
	require.NoError(t, err)
	require.Equal(t, donorModel.PaymentStatusOverdue, snap.PaymentStatus)

	// paying off the pledge clears the lateness flag
	require.NoError(t, db.Create(&paymentModel.PledgePayment{
		PledgePaymentID:       uuid.New(),
		PledgePaymentDonorID:  donor.DonorID,
		PledgePaymentPledgeID: uuid.New(),
		PledgePaymentAmount:   dec("800"),
		PledgePaymentStatus:   paymentModel.PledgePaymentStatusConfirmed,
	}).Error)
	snap, err = Reconcile(db, nil, donor.DonorID, ModeRecalculate, nil)
	require.NoError(t, err)
	require.Equal(t, donorModel.PaymentStatusCompleted, snap.PaymentStatus)
}

func TestReconcileUnknownDonor(t *testing.T) {
	db := openTestDB(t)
	_, err := Reconcile(db, nil, uuid.New(), ModeRecalculate, nil)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
