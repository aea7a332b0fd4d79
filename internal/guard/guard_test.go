package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astba/console/internal/auth"
	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/rbac"
	"github.com/astba/console/internal/session"
)

func sessionFor(t *testing.T, token string, role rbac.Role) *auth.Service {
	t.Helper()

	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, store.Set(session.KeyToken, token))
	}
	if role != rbac.RoleUnknown {
		require.NoError(t, store.Set(session.KeyRole, string(role)))
	}

	srv := httptest.NewServer(http.NewServeMux())
	t.Cleanup(srv.Close)

	svc, err := auth.NewService(client.Config{BaseURL: srv.URL}, store)
	require.NoError(t, err)
	return svc
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous navigation is replaced with login", func(t *testing.T) {
		d := RequireAuth(sessionFor(t, "", rbac.RoleUnknown))
		assert.Equal(t, Decision{RedirectTo: LoginRoute, Replace: true}, d)
	})

	t.Run("a leftover role without a token does not count", func(t *testing.T) {
		d := RequireAuth(sessionFor(t, "", rbac.RoleAdmin))
		assert.False(t, d.Allowed)
		assert.Equal(t, LoginRoute, d.RedirectTo)
	})

	t.Run("any authenticated role is allowed", func(t *testing.T) {
		for _, role := range rbac.Roles {
			d := RequireAuth(sessionFor(t, "tok", role))
			assert.True(t, d.Allowed, role)
			assert.Empty(t, d.RedirectTo, role)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("unauthenticated wins over role checks", func(t *testing.T) {
		d := RequireRole(sessionFor(t, "", rbac.RoleUnknown), rbac.RoleAdmin, nil)
		assert.Equal(t, Decision{RedirectTo: LoginRoute, Replace: true}, d)
	})

	t.Run("matching single role is allowed", func(t *testing.T) {
		d := RequireRole(sessionFor(t, "tok", rbac.RoleAdmin), rbac.RoleAdmin, nil)
		assert.True(t, d.Allowed)
	})

	t.Run("mismatch lands on the user's own page, not login", func(t *testing.T) {
		d := RequireRole(sessionFor(t, "tok", rbac.RoleFormateur), rbac.RoleAdmin, nil)
		assert.Equal(t, Decision{RedirectTo: "/dashboard", Replace: true}, d)

		d = RequireRole(sessionFor(t, "tok", rbac.RoleEleve), rbac.RoleAdmin, nil)
		assert.Equal(t, Decision{RedirectTo: "/student-space", Replace: true}, d)
	})

	t.Run("a roles list takes precedence over the single role", func(t *testing.T) {
		staff := []rbac.Role{rbac.RoleAdmin, rbac.RoleFormateur, rbac.RoleResponsable}

		d := RequireRole(sessionFor(t, "tok", rbac.RoleFormateur), rbac.RoleAdmin, staff)
		assert.True(t, d.Allowed)

		d = RequireRole(sessionFor(t, "tok", rbac.RoleEleve), rbac.RoleEleve, staff)
		assert.False(t, d.Allowed)
	})

	t.Run("no role constraint behaves like require-auth", func(t *testing.T) {
		d := RequireRole(sessionFor(t, "tok", rbac.RoleVisiteur), rbac.RoleUnknown, nil)
		assert.True(t, d.Allowed)
	})
}
