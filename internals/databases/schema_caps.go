package database

import (
	"log"

	"gorm.io/gorm"
)

/* ===============================
   Schema capabilities
=================================*/

// Some deployments still run the older schema where a few columns carry
// their legacy names (reference vs transaction_ref, received_at vs
// payment_date). Instead of probing SHOW COLUMNS on every request, the
// capability set is resolved once after connect and handed to the query
// builder as a named-column mapping.

type SchemaCaps struct {
	// Column names resolved per table; empty string means the concern is
	// unavailable and the feature degrades (e.g. no reference search).
	PaymentReferenceCol       string // payments.reference_number | transaction_ref | ""
	PledgePaymentReferenceCol string // pledge_payments.reference_number | reference | ""
	PaymentDateCol            string // payments.payment_date | received_at
	DonorRepresentativeCol    string // donors.representative_id | "" (optional column)
}

var Caps SchemaCaps

// ResolveSchemaCaps inspects the active schema once. Safe to call again after
// a migration; it only reads catalog metadata.
func ResolveSchemaCaps(db *gorm.DB) {
	m := db.Migrator()

	Caps.PaymentReferenceCol = firstColumn(m, "payments", "reference_number", "transaction_ref")
	Caps.PledgePaymentReferenceCol = firstColumn(m, "pledge_payments", "reference_number", "reference")

	Caps.PaymentDateCol = firstColumn(m, "payments", "payment_date", "received_at")
	if Caps.PaymentDateCol == "" {
		Caps.PaymentDateCol = "created_at"
	}

	Caps.DonorRepresentativeCol = firstColumn(m, "donors", "representative_id")

	if Caps.PaymentReferenceCol == "" {
		log.Println("⚠️ payments has no reference column, reference search disabled")
	}
}

func firstColumn(m gorm.Migrator, table string, candidates ...string) string {
	for _, col := range candidates {
		if m.HasColumn(table, col) {
			return col
		}
	}
	return ""
}
