// Package guard implements route-level access control decisions over the
// current session snapshot. Guards never touch the network; they only read
// the session through the auth service and say where navigation should go.
package guard

import (
	"slices"

	"github.com/astba/console/internal/auth"
	"github.com/astba/console/internal/rbac"
)

// LoginRoute is where unauthenticated navigation is sent.
const LoginRoute = "/login"

// Decision is the outcome of evaluating a guard.
type Decision struct {
	// Allowed reports whether the guarded content may render.
	Allowed bool

	// RedirectTo is the route to navigate to when not allowed.
	RedirectTo string

	// Replace asks the navigator to replace the current history entry
	// instead of pushing, so back-navigation does not return to the guarded
	// page.
	Replace bool
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to, Replace: true}
}

// RequireAuth allows any authenticated session, regardless of role.
func RequireAuth(s *auth.Service) Decision {
	if !s.IsAuthenticated() {
		return redirect(LoginRoute)
	}
	return allow()
}

// RequireRole allows an authenticated session whose role is in the allowed
// set. An explicit roles list takes precedence over the single role. A
// mismatch redirects to the current user's default route, not to login,
// because the user is authenticated, just unauthorized for this page.
func RequireRole(s *auth.Service, role rbac.Role, roles []rbac.Role) Decision {
	if d := RequireAuth(s); !d.Allowed {
		return d
	}

	allowed := roles
	if len(allowed) == 0 && role != rbac.RoleUnknown {
		allowed = []rbac.Role{role}
	}

	if len(allowed) > 0 && !slices.Contains(allowed, s.UserRole()) {
		return redirect(rbac.DefaultRoute(s.UserRole()))
	}

	return allow()
}
