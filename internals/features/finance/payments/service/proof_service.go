// file: internals/features/finance/payments/service/proof_service.go
package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tesfa_backend/internals/configs"
	"tesfa_backend/internals/constants"
	"tesfa_backend/internals/helpers/apperr"
)

// ProofFileName builds the predictable proof path for a payment:
// proof_<payment_id>_<timestamp>.<ext>. The extension must be on the
// jpg/jpeg/png/pdf whitelist.
func ProofFileName(paymentID uuid.UUID, originalName string) (string, error) {
	ext := constants.ProofExt(originalName)
	if ext == "" {
		return "", apperr.Validation("proof must be jpg, jpeg, png or pdf")
	}
	name := fmt.Sprintf("proof_%s_%d.%s", paymentID, time.Now().Unix(), ext)
	return filepath.Join(configs.ProofUploadDir, name), nil
}

// RemoveProofFile deletes a replaced proof from disk. Called only after the
// transaction that detached the path has committed; a missing file is not an
// error.
func RemoveProofFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ failed to remove old proof %s: %v", path, err)
	}
}
