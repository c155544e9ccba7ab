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

	"tesfa_backend/internals/features/finance/pledges/model"
)

func TestExtractReference(t *testing.T) {
	cases := []struct {
		notes string
		want  string
	}{
		{"Paid via bank, ref 8421 confirmed", "8421"},
		{"ref:8421.", "8421"},
		{"first 1111 then 2222", "1111"},
		{"", ""},
		{"no digits here", ""},
		{"too short 123 and too long 12345", ""},
		{"amount 500", ""},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, ExtractReference(tc.notes), "notes=%q", tc.notes)
	}
}

func TestFallbackReference(t *testing.T) {
	require.Equal(t, "0042", FallbackReference(42))
	require.Equal(t, "0007", FallbackReference(7))
	require.Equal(t, "12345", FallbackReference(12345))
}

func TestDonorReferenceNewestPledgeWins(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Pledge{}))

	donorID := uuid.New()
	old := model.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donorID,
		PledgeAmount:  decimal.NewFromInt(100),
		PledgeNotes:   "old ref 1111",
		CreatedAt:     time.Now().Add(-48 * time.Hour),
	}
	newest := model.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donorID,
		PledgeAmount:  decimal.NewFromInt(200),
		PledgeNotes:   "newer ref 2222",
		CreatedAt:     time.Now(),
	}
	noRef := model.Pledge{
		PledgeID:      uuid.New(),
		PledgeDonorID: donorID,
		PledgeAmount:  decimal.NewFromInt(300),
		PledgeNotes:   "no reference in these notes",
		CreatedAt:     time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&newest).Error)
	require.NoError(t, db.Create(&noRef).Error)

	ref, err := DonorReference(db, donorID, 9)
	require.NoError(t, err)
	require.Equal(t, "2222", ref)

	// no pledge carries a reference: zero-padded donor sequence
	ref, err = DonorReference(db, uuid.New(), 9)
	require.NoError(t, err)
	require.Equal(t, "0009", ref)
}
