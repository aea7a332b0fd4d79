package rbac

// Role is the closed set of account roles the ASTBA backend issues.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleResponsable Role = "RESPONSABLE"
	RoleFormateur   Role = "FORMATEUR"
	RoleEleve       Role = "ELEVE"
	RoleVisiteur    Role = "VISITEUR"

	// RoleUnknown covers an unset or unrecognized role value. It carries no
	// permissions and no landing page.
	RoleUnknown Role = ""
)

// Roles lists every known role.
var Roles = []Role{
	RoleAdmin,
	RoleResponsable,
	RoleFormateur,
	RoleEleve,
	RoleVisiteur,
}

// ParseRole maps a wire/storage value to a Role. Anything outside the closed
// set parses to RoleUnknown; the function is total over all inputs.
func ParseRole(value string) Role {
	switch Role(value) {
	case RoleAdmin, RoleResponsable, RoleFormateur, RoleEleve, RoleVisiteur:
		return Role(value)
	default:
		return RoleUnknown
	}
}

// IsValid reports whether the role is a member of the closed set.
func (r Role) IsValid() bool {
	return ParseRole(string(r)) != RoleUnknown
}

func (r Role) String() string {
	return string(r)
}
