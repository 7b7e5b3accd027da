package domain

// Role enumerates portal roles.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// License enumerates subscription tiers.
type License string

const (
	LicenseBasic      License = "Basic"
	LicenseTeams      License = "Teams"
	LicenseEnterprise License = "Enterprise"
)

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(raw), true
	}
	return "", false
}

// ParseLicense validates a raw license value.
func ParseLicense(raw string) (License, bool) {
	switch License(raw) {
	case LicenseBasic, LicenseTeams, LicenseEnterprise:
		return License(raw), true
	}
	return "", false
}

// User is the portal account model. ResetToken is set by the forgot-password
// flow and cleared again on a successful reset.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	License      License
	ResetToken   *string
}
