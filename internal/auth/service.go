package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/astba/console/internal/client"
	"github.com/astba/console/internal/rbac"
	"github.com/astba/console/internal/session"
)

// refreshMargin is how close to expiry a stored JWT may get before Bootstrap
// refreshes it proactively.
const refreshMargin = time.Minute

// Profile is the identity snapshot held in the session store.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      rbac.Role
}

// Service orchestrates login, logout and refresh, and is the only writer of
// the session store. Everything else reads through its accessors.
type Service struct {
	store  *session.Store
	client *client.Client
}

// NewService wires a client whose silent-refresh path persists through this
// service, keeping session writes in one place.
func NewService(cfg client.Config, store *session.Store) (*Service, error) {
	s := &Service{store: store}

	c, err := client.New(cfg, store, s.applySession)
	if err != nil {
		return nil, err
	}
	s.client = c

	return s, nil
}

// Client exposes the configured API client for endpoint calls.
func (s *Service) Client() *client.Client {
	return s.client
}

// Login exchanges credentials for a session and persists it. On rejection the
// store is left untouched; the caller owns user-facing messaging.
func (s *Service) Login(ctx context.Context, email, password string) error {
	payload, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.applySession(*payload); err != nil {
		return err
	}

	// The server may omit the user object on login; keep the email the user
	// signed in with so the profile is not empty.
	if payload.User == nil && email != "" {
		if err := s.store.Set(session.KeyEmail, email); err != nil {
			return err
		}
	}

	log.Debug().Str("email", s.CurrentUser()).Str("role", string(s.UserRole())).Msg("logged in")
	return nil
}

// Logout notifies the server best-effort, then clears every session key.
// Local logout always succeeds even when the network call fails.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		log.Debug().Err(err).Msg("server logout failed, clearing local session anyway")
	}
	return s.store.Clear()
}

// Refresh exchanges the refresh cookie for a new token and persists the
// result exactly like a login. On failure only the token is cleared; identity
// fields are left for the next login to overwrite.
func (s *Service) Refresh(ctx context.Context) error {
	payload, err := s.client.RefreshSession(ctx)
	if err != nil {
		if rmErr := s.store.Remove(session.KeyToken); rmErr != nil {
			log.Debug().Err(rmErr).Msg("failed to clear stale token")
		}
		return err
	}
	return s.applySession(*payload)
}

// Bootstrap proactively refreshes when the stored token is a JWT about to
// expire. Opaque or absent tokens are left alone; IsAuthenticated stays a
// pure presence check either way.
func (s *Service) Bootstrap(ctx context.Context) error {
	token := s.store.Get(session.KeyToken)
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if time.Now().Add(refreshMargin).Before(exp.Time) {
		return nil
	}

	log.Debug().Time("expiry", exp.Time).Msg("access token near expiry, refreshing")
	return s.Refresh(ctx)
}

// IsAuthenticated reports whether a token is stored. Token presence is the
// sole predicate; leftover identity fields without a token never count.
func (s *Service) IsAuthenticated() bool {
	return s.store.Get(session.KeyToken) != ""
}

// CurrentUser returns the stored email.
func (s *Service) CurrentUser() string {
	return s.store.Get(session.KeyEmail)
}

// UserRole returns the stored role, RoleUnknown when unset or unrecognized.
func (s *Service) UserRole() rbac.Role {
	return rbac.ParseRole(s.store.Get(session.KeyRole))
}

// Profile returns the stored identity fields.
func (s *Service) Profile() Profile {
	return Profile{
		ID:        s.store.Get(session.KeyUserID),
		Email:     s.store.Get(session.KeyEmail),
		FirstName: s.store.Get(session.KeyFirstName),
		LastName:  s.store.Get(session.KeyLastName),
		Role:      s.UserRole(),
	}
}

// Permissions returns the stored permission list. Malformed stored data
// yields an empty list, never an error.
func (s *Service) Permissions() []string {
	return s.store.Permissions()
}

// DefaultRoute returns the landing page for the current role.
func (s *Service) DefaultRoute() string {
	return rbac.DefaultRoute(s.UserRole())
}

// applySession writes the fields present in an auth payload. A field counts
// as present when non-empty (non-nil for the numeric id); absent fields keep
// their prior values. Permissions are recomputed from the role in the same
// write, so they can never go stale against it.
func (s *Service) applySession(p client.AuthPayload) error {
	if p.AccessToken != "" {
		if err := s.store.Set(session.KeyToken, p.AccessToken); err != nil {
			return err
		}
	}

	u := p.User
	if u == nil {
		return nil
	}

	if u.ID != nil {
		if err := s.store.Set(session.KeyUserID, strconv.FormatInt(*u.ID, 10)); err != nil {
			return err
		}
	}
	if u.Email != "" {
		if err := s.store.Set(session.KeyEmail, u.Email); err != nil {
			return err
		}
	}
	if u.Role != "" {
		if err := s.store.Set(session.KeyRole, u.Role); err != nil {
			return err
		}
		if err := s.store.SetPermissions(rbac.PermissionNames(rbac.ParseRole(u.Role))); err != nil {
			return err
		}
	}
	if u.FirstName != "" {
		if err := s.store.Set(session.KeyFirstName, u.FirstName); err != nil {
			return err
		}
	}
	if u.LastName != "" {
		if err := s.store.Set(session.KeyLastName, u.LastName); err != nil {
			return err
		}
	}

	return nil
}
