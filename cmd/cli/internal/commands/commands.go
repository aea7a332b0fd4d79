package commands

import (
	"fmt"

	"github.com/astba/console/internal/auth"
	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/guard"
	"github.com/astba/console/internal/rbac"
	"github.com/astba/console/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
}

const defaultAPIURL = "http://localhost:8080/api"

// connectFlags are shared by every command that talks to the backend or the
// local session. Flags and environment win over the config file.
type connectFlags struct {
	APIURL     string `help:"ASTBA API base URL" env:"ASTBA_API_URL" default:"http://localhost:8080/api"`
	SessionDir string `help:"Custom session directory" env:"ASTBA_SESSION_DIR"`
}

// service builds the auth service and its API client from flags, env, config
// file and defaults, in that order of precedence.
func (f *connectFlags) service() (*auth.Service, error) {
	fileCfg := loadFileConfig()

	apiURL := f.APIURL
	if apiURL == defaultAPIURL && fileCfg.APIURL != "" {
		apiURL = fileCfg.APIURL
	}
	sessionDir := f.SessionDir
	if sessionDir == "" {
		sessionDir = fileCfg.SessionDir
	}

	store, err := session.NewStore(sessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	svc, err := auth.NewService(client.Config{BaseURL: apiURL}, store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	return svc, nil
}

// requireRoles evaluates the matching route guard before a command touches
// the API, mirroring what the console's router does before rendering a page.
func requireRoles(svc *auth.Service, roles ...rbac.Role) error {
	var d guard.Decision
	if len(roles) == 0 {
		d = guard.RequireAuth(svc)
	} else {
		d = guard.RequireRole(svc, rbac.RoleUnknown, roles)
	}

	if d.Allowed {
		return nil
	}
	if d.RedirectTo == guard.LoginRoute {
		return fmt.Errorf("not signed in; run 'astba-cli login'")
	}
	return fmt.Errorf("role %s is not allowed here; the console redirects to %s", svc.UserRole(), d.RedirectTo)
}
