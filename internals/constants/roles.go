package constants

import "fmt"

const (
	RoleAdmin      = "admin"
	RoleAgent      = "agent"
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess = "❌ Only admins may access %s."
	ErrOnlyStaffCanAccess  = "❌ Only staff roles may access %s."
	ErrOnlyOwnersCanAccess = "❌ Only the owner may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleAgent,
		RoleOwner,
		RoleAccountant,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}

	FinanceRoles = []string{
		RoleAdmin,
		RoleOwner,
		RoleAccountant,
	}
)
