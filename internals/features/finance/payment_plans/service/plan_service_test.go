package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditModel "tesfa_backend/internals/features/audit/model"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	"tesfa_backend/internals/features/finance/payment_plans/model"
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
		&model.DonorPaymentPlan{},
		&auditModel.AuditLog{},
	))
	return db
}

func seedDonor(t *testing.T, db *gorm.DB, seq int64) donorModel.Donor {
	t.Helper()
	d := donorModel.Donor{
		DonorID:    uuid.New(),
		DonorSeq:   seq,
		DonorName:  "Mulu Gebremedhin",
		DonorPhone: "+25192200" + uuid.NewString()[:4],
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFirstDueDate(t *testing.T) {
	cases := []struct {
		start      string
		paymentDay int
		want       string
	}{
		{"2024-01-15", 10, "2024-02-10"},
		{"2024-01-05", 10, "2024-01-10"},
		{"2024-01-10", 10, "2024-01-10"},
		{"2024-01-31", 28, "2024-02-28"},
	}
	for _, tc := range cases {
		got := FirstDueDate(day(tc.start), tc.paymentDay)
		require.Equalf(t, tc.want, got.Format("2006-01-02"),
			"start=%s day=%d", tc.start, tc.paymentDay)
	}
}

func TestCreatePlanMirrorsDonor(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 1)

	plan, err := CreatePlan(db, nil, CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.NewFromInt(100),
		DurationMonths: 6,
		StartDate:      day("2024-01-15"),
		PaymentDay:     10,
	})
	require.NoError(t, err)
	require.Equal(t, model.PlanStatusActive, plan.PlanStatus)
	require.Equal(t, "600", plan.PlanTotalAmount.String())
	require.Equal(t, "600", plan.PlanBalance.String())
	require.Equal(t, "2024-02-10", plan.PlanNextPaymentDue.Format("2006-01-02"))

	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.True(t, got.DonorHasActivePlan)
	require.NotNil(t, got.DonorActivePaymentPlanID)
	require.Equal(t, plan.PlanID, *got.DonorActivePaymentPlanID)
	require.Equal(t, "2024-02-10", got.DonorPlanNextDueDate.Format("2006-01-02"))
}

func TestCreatePlanConflictLeavesNoRow(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 2)

	in := CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.NewFromInt(50),
		DurationMonths: 12,
		StartDate:      day("2024-03-01"),
		PaymentDay:     5,
	}
	_, err := CreatePlan(db, nil, in)
	require.NoError(t, err)

	_, err = CreatePlan(db, nil, in)
	require.ErrorIs(t, err, apperr.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.DonorPaymentPlan{}).
		Where("plan_donor_id = ?", donor.DonorID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreatePlanValidation(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 3)

	_, err := CreatePlan(db, nil, CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.Zero,
		DurationMonths: 6,
		StartDate:      day("2024-01-01"),
		PaymentDay:     10,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = CreatePlan(db, nil, CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.NewFromInt(100),
		DurationMonths: 6,
		StartDate:      day("2024-01-01"),
		PaymentDay:     31,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSetStatusCancelClearsDonor(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 4)

	plan, err := CreatePlan(db, nil, CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.NewFromInt(100),
		DurationMonths: 6,
		StartDate:      day("2024-01-01"),
		PaymentDay:     10,
	})
	require.NoError(t, err)

	updated, err := SetStatus(db, nil, plan.PlanID, model.PlanStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, model.PlanStatusCancelled, updated.PlanStatus)

	var got donorModel.Donor
	require.NoError(t, db.First(&got, "donor_id = ?", donor.DonorID).Error)
	require.False(t, got.DonorHasActivePlan)
	require.Nil(t, got.DonorActivePaymentPlanID)
	require.Nil(t, got.DonorPlanNextDueDate)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	db := openTestDB(t)
	_, err := SetStatus(db, nil, uuid.New(), "snoozed")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApplyConfirmedPaymentAdvancesOnFullInstallments(t *testing.T) {
	db := openTestDB(t)
	donor := seedDonor(t, db, 5)

	plan, err := CreatePlan(db, nil, CreatePlanInput{
		DonorID:        donor.DonorID,
		MonthlyAmount:  decimal.NewFromInt(100),
		DurationMonths: 3,
		StartDate:      day("2024-01-01"),
		PaymentDay:     10,
	})
	require.NoError(t, err)

	// Each read scans into a fresh struct: gorm leaves stale pointer fields
	// in place when a column comes back NULL.
	reload := func() model.DonorPaymentPlan {
		var got model.DonorPaymentPlan
		require.NoError(t, db.First(&got, "plan_id = ?", plan.PlanID).Error)
		return got
	}

	// partial payment: balance moves, counter does not
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyConfirmedPayment(tx, plan.PlanID, decimal.NewFromInt(60))
	}))
	got := reload()
	require.Equal(t, 0, got.PlanPaymentsMade)
	require.Equal(t, "240", got.PlanBalance.String())
	require.Equal(t, "2024-01-10", got.PlanNextPaymentDue.Format("2006-01-02"))

	// topping up covers the first installment
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyConfirmedPayment(tx, plan.PlanID, decimal.NewFromInt(40))
	}))
	got = reload()
	require.Equal(t, 1, got.PlanPaymentsMade)
	require.Equal(t, "2024-02-10", got.PlanNextPaymentDue.Format("2006-01-02"))

	// paying the rest completes the plan and detaches the donor
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyConfirmedPayment(tx, plan.PlanID, decimal.NewFromInt(200))
	}))
	got = reload()
	require.Equal(t, model.PlanStatusCompleted, got.PlanStatus)
	require.Nil(t, got.PlanNextPaymentDue)
	require.True(t, got.PlanBalance.IsZero())

	var gotDonor donorModel.Donor
	require.NoError(t, db.First(&gotDonor, "donor_id = ?", donor.DonorID).Error)
	require.False(t, gotDonor.DonorHasActivePlan)
}
