package constants

import (
	"path/filepath"
	"strings"
)

// Allowed payment-proof upload extensions.
var proofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

func IsAllowedProofExt(filename string) bool {
	return proofExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ProofExt returns the lowercased extension without the leading dot, or ""
// when the file type is not accepted.
func ProofExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !proofExtensions[ext] {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
