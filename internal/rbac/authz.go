package rbac

import "slices"

// Permission represents a coarse feature-gating capability derived from role.
type Permission string

const (
	PermAdminDashboard   Permission = "ADMIN_DASHBOARD"
	PermManageUsers      Permission = "MANAGE_USERS"
	PermTrainingsAll     Permission = "TRAININGS_ALL"
	PermTrainingsManage  Permission = "TRAININGS_MANAGE"
	PermTrainingsView    Permission = "TRAININGS_VIEW"
	PermAttendanceAll    Permission = "ATTENDANCE_ALL"
	PermAttendanceManage Permission = "ATTENDANCE_MANAGE"
	PermAttendanceMark   Permission = "ATTENDANCE_MARK"
	PermReportsView      Permission = "REPORTS_VIEW"
	PermStudentPortal    Permission = "STUDENT_PORTAL"
	PermPublic           Permission = "PUBLIC"
)

// rolePermissions maps each role to its fixed permission set. Permissions are
// never stored independently; they are always recomputed from the role.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermAdminDashboard,
		PermManageUsers,
		PermTrainingsAll,
		PermAttendanceAll,
		PermReportsView,
	},
	RoleResponsable: {
		PermTrainingsManage,
		PermAttendanceManage,
		PermReportsView,
	},
	RoleFormateur: {
		PermAttendanceMark,
		PermTrainingsView,
	},
	RoleEleve: {
		PermStudentPortal,
	},
	RoleVisiteur: {
		PermPublic,
	},
}

// PermissionsFor returns the ordered permission set for a role. Unknown or
// empty roles get an empty set. The returned slice is a copy.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return []Permission{}
	}
	return slices.Clone(perms)
}

// PermissionNames returns PermissionsFor as plain strings, the form the
// session store persists.
func PermissionNames(role Role) []string {
	perms := PermissionsFor(role)
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	return names
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// DefaultRoute maps a role to its landing page path. Guards use it to send an
// authenticated-but-unauthorized user somewhere valid instead of bouncing
// back to login.
func DefaultRoute(role Role) string {
	switch role {
	case RoleAdmin, RoleResponsable, RoleFormateur:
		return "/dashboard"
	case RoleEleve:
		return "/student-space"
	case RoleVisiteur:
		return "/"
	default:
		return "/login"
	}
}
