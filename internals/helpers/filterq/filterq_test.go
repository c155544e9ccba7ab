package filterq

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID     uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Status string          `gorm:"column:status"`
	Ref    string          `gorm:"column:ref"`
	Amount decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	PaidAt time.Time       `gorm:"column:paid_at"`
}

func (ledgerRow) TableName() string { return "ledger_rows" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerRow{}))
	return db
}

func seedLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []ledgerRow{
		{ID: uuid.New(), Status: "confirmed", Ref: "REF-8421", Amount: decimal.NewFromInt(100), PaidAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: "confirmed", Ref: "ref-1234", Amount: decimal.NewFromInt(250), PaidAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: "pending", Ref: "REF-8421", Amount: decimal.NewFromInt(40), PaidAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Status: "voided", Ref: "", Amount: decimal.NewFromInt(999), PaidAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, db.Create(&rows).Error)
}

func TestBuilderSkipsEmptyInputs(t *testing.T) {
	f := New().
		Eq("status", "").
		Eq("", "confirmed").
		DateFrom("paid_at", "  ").
		Search("", "ref")
	require.True(t, f.IsEmpty())
	require.Empty(t, f.Fragments())
}

func TestBuilderSearchSkipsMissingColumns(t *testing.T) {
	// a schema capability that resolved to "" narrows the group
	f := New().Search("ref", "", "notes")
	require.Len(t, f.Fragments(), 1)
	require.Equal(t, "(LOWER(notes) LIKE ?)", f.Fragments()[0].Clause)

	// all columns missing: no fragment at all
	require.True(t, New().Search("ref", "", "").IsEmpty())
}

// The listing and its stat cards must be driven by the same fragments, so a
// sum over the filtered rows always equals the filtered aggregate.
func TestListAndAggregateAgree(t *testing.T) {
	db := openTestDB(t)
	seedLedger(t, db)

	f := New().
		Eq("status", "confirmed").
		DateFrom("paid_at", "2024-01-01").
		DateTo("paid_at", "2024-02-28").
		Search("ref", "ref")

	var rows []ledgerRow
	require.NoError(t, f.Apply(db.Model(&ledgerRow{})).Find(&rows).Error)
	require.Len(t, rows, 2)

	listed := decimal.Zero
	for _, r := range rows {
		listed = listed.Add(r.Amount)
	}

	var agg struct {
		Total decimal.Decimal
	}
	require.NoError(t, f.Apply(db.Model(&ledgerRow{})).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&agg).Error)

	require.True(t, listed.Equal(agg.Total), "listed %s != aggregate %s", listed, agg.Total)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	seedLedger(t, db)

	var rows []ledgerRow
	require.NoError(t, New().Search("REF-8421", "ref").
		Apply(db.Model(&ledgerRow{})).
		Find(&rows).Error)
	require.Len(t, rows, 2)
}
