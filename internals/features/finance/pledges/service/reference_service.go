// file: internals/features/finance/pledges/service/reference_service.go
package service

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/finance/pledges/model"
	"tesfa_backend/internals/helpers/apperr"
)

// Exactly 4 consecutive digits bounded by non-digits. A heuristic, not a
// guaranteed-unique key: dates or amounts embedded in the notes can match
// too, and the first match in scan order always wins.
var referencePattern = regexp.MustCompile(`\b(\d{4})\b`)

// ExtractReference returns the first 4-digit run in notes, or "" when none.
// Pure function of the input text.
func ExtractReference(notes string) string {
	m := referencePattern.FindStringSubmatch(notes)
	if m == nil {
		return ""
	}
	return m[1]
}

// FallbackReference left-pads the donor's numeric sequence to 4 digits.
func FallbackReference(donorSeq int64) string {
	return fmt.Sprintf("%04d", donorSeq)
}

// DonorReference derives the donor-facing 4-digit reference: the newest
// pledge whose notes carry a 4-digit run wins; without one, the zero-padded
// donor sequence number is used. Read-only.
func DonorReference(db *gorm.DB, donorID uuid.UUID, donorSeq int64) (string, error) {
	var pledges []model.Pledge
	if err := db.
		Where("pledge_donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&pledges).Error; err != nil {
		return "", apperr.Persistence(err)
	}

	for _, p := range pledges {
		if ref := ExtractReference(p.PledgeNotes); ref != "" {
			return ref, nil
		}
	}
	return FallbackReference(donorSeq), nil
}
