package client

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/astba/console/internal/session"
)

// refreshCookieName is the cookie the server issues on login to back the
// refresh exchange.
const refreshCookieName = "astba_refresh"

// cookieTransport stands in for the browser's cookie jar. The refresh cookie
// is persisted in the session store so it survives process restarts: every
// outgoing request attaches the stored value, and every response that sets or
// clears the cookie updates the store.
type cookieTransport struct {
	store *session.Store
	next  http.RoundTripper
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if v := t.store.Get(session.KeyRefreshCookie); v != "" {
		r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: v})
	}

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		return resp, err
	}

	for _, c := range resp.Cookies() {
		if c.Name != refreshCookieName {
			continue
		}
		if c.Value == "" || c.MaxAge < 0 {
			if rmErr := t.store.Remove(session.KeyRefreshCookie); rmErr != nil {
				log.Debug().Err(rmErr).Msg("failed to drop refresh cookie")
			}
			continue
		}
		if setErr := t.store.Set(session.KeyRefreshCookie, c.Value); setErr != nil {
			log.Debug().Err(setErr).Msg("failed to persist refresh cookie")
		}
	}

	return resp, nil
}

// bearerTransport attaches the stored access token to every outgoing request.
// The token is read fresh from the session store per request, never cached at
// construction time, so a refresh in another code path is picked up
// immediately.
type bearerTransport struct {
	store *session.Store
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if token := t.store.Get(session.KeyToken); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if r.Header.Get("X-Request-Id") == "" {
		r.Header.Set("X-Request-Id", uuid.NewString())
	}
	return t.next.RoundTrip(r)
}

// refreshTransport recovers from an expired access token without surfacing
// the failure to the caller, at most once per original request.
//
// On a 401 it runs the refresh exchange through the cookie-only client,
// persists the payload, and re-issues the original request exactly once. The
// retry goes straight to the bearer transport, so a second 401 can never
// trigger another refresh. Concurrent expiring requests each run their own
// refresh; there is no cross-request coalescing.
type refreshTransport struct {
	next    http.RoundTripper
	store   *session.Store
	apply   ApplyFunc
	refresh func(ctx context.Context) (*AuthPayload, error)
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A consumed streaming body cannot be replayed.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	payload, refreshErr := t.refresh(req.Context())
	if refreshErr != nil {
		// The session cookie no longer buys a token: drop only the stale
		// access token and surface the original failure.
		log.Debug().Err(refreshErr).Msg("silent token refresh failed")
		if err := t.store.Remove(session.KeyToken); err != nil {
			log.Debug().Err(err).Msg("failed to clear stale token")
		}
		return resp, nil
	}

	if err := t.persist(*payload); err != nil {
		log.Debug().Err(err).Msg("failed to persist refreshed session")
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}

	drainAndClose(resp)

	log.Debug().Str("path", req.URL.Path).Msg("retrying request with refreshed token")
	return t.next.RoundTrip(retry)
}

func (t *refreshTransport) persist(payload AuthPayload) error {
	if t.apply != nil {
		return t.apply(payload)
	}
	return t.store.Set(session.KeyToken, payload.AccessToken)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}

// loggingTransport emits a debug line per request.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(started)).
			Msg("http request failed")
		return resp, err
	}

	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("http request")

	return resp, err
}
