package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astba/console/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	apply := func(p AuthPayload) error {
		if p.AccessToken != "" {
			if err := store.Set(session.KeyToken, p.AccessToken); err != nil {
				return err
			}
		}
		if p.User != nil && p.User.Email != "" {
			return store.Set(session.KeyEmail, p.User.Email)
		}
		return nil
	}

	c, err := New(Config{BaseURL: srv.URL}, store, apply)
	require.NoError(t, err)

	return c, store
}

func TestBearerTransport(t *testing.T) {
	t.Run("reads the token fresh on every request", func(t *testing.T) {
		var seen []string
		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("Authorization"))
			w.Write([]byte(`[]`))
		})

		c, store := newTestClient(t, mux)
		ctx := context.Background()

		require.NoError(t, store.Set(session.KeyToken, "first"))
		_, err := c.ListUsers(ctx, "")
		require.NoError(t, err)

		require.NoError(t, store.Set(session.KeyToken, "second"))
		_, err = c.ListUsers(ctx, "")
		require.NoError(t, err)

		assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
	})

	t.Run("omits the header when no token is stored", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
			w.Write([]byte(`[]`))
		})

		c, _ := newTestClient(t, mux)
		_, err := c.ListUsers(context.Background(), "")
		require.NoError(t, err)
	})
}

func TestRefreshTransport(t *testing.T) {
	t.Run("silently refreshes and retries once on 401", func(t *testing.T) {
		var userCalls, refreshCalls atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			userCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer new-token" {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[{"id":1,"email":"a@astba.fr","role":"ADMIN"}]`))
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
			// The refresh exchange must not carry the stale bearer token.
			assert.Empty(t, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "new-token"})
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))

		users, err := c.ListUsers(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "a@astba.fr", users[0].Email)

		assert.Equal(t, int32(2), userCalls.Load())
		assert.Equal(t, int32(1), refreshCalls.Load())
		assert.Equal(t, "new-token", store.Get(session.KeyToken))
	})

	t.Run("replays the request body on retry", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer new-token" {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"recipientId":7,"content":"bonjour"}`, string(body))
			w.Write([]byte(`{"id":42,"senderId":1,"recipientId":7,"content":"bonjour","timestamp":"2025-01-01T00:00:00Z","read":false}`))
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "new-token"})
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))

		msg, err := c.SendMessage(context.Background(), SendMessageRequest{RecipientID: 7, Content: "bonjour"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), msg.ID)
	})

	t.Run("failed refresh clears only the token and surfaces the original failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))
		require.NoError(t, store.Set(session.KeyRole, "ADMIN"))

		_, err := c.ListUsers(context.Background(), "")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		// The caller sees the original failure, not a refresh-specific one.
		assert.Contains(t, apiErr.Message, "token expired")

		assert.Empty(t, store.Get(session.KeyToken))
		assert.Equal(t, "ADMIN", store.Get(session.KeyRole))
	})

	t.Run("a retried request never triggers a second refresh", func(t *testing.T) {
		var userCalls, refreshCalls atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			userCalls.Add(1)
			http.Error(w, "still expired", http.StatusUnauthorized)
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "new-token"})
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))

		_, err := c.ListUsers(context.Background(), "")
		require.Error(t, err)
		assert.True(t, IsAuthError(err))

		assert.Equal(t, int32(2), userCalls.Load())
		assert.Equal(t, int32(1), refreshCalls.Load())
	})

	t.Run("the refresh cookie survives a new client over the same session dir", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "astba_refresh", Value: "r1", HttpOnly: true})
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "tok-1"})
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie("astba_refresh")
			if err != nil || c.Value != "r1" {
				http.Error(w, "missing refresh cookie", http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "tok-2"})
		})
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-2" {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[]`))
		})

		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)
		ctx := context.Background()
		dir := t.TempDir()

		first, err := session.NewStore(dir)
		require.NoError(t, err)
		loginClient, err := New(Config{BaseURL: srv.URL}, first, nil)
		require.NoError(t, err)

		_, err = loginClient.Login(ctx, "admin@astba.fr", "pw")
		require.NoError(t, err)
		assert.Equal(t, "r1", first.Get(session.KeyRefreshCookie))

		// A later invocation builds everything from scratch over the same
		// session dir; only the persisted cookie can carry the refresh.
		second, err := session.NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, second.Set(session.KeyToken, "expired"))
		laterClient, err := New(Config{BaseURL: srv.URL}, second, nil)
		require.NoError(t, err)

		_, err = laterClient.ListUsers(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "tok-2", second.Get(session.KeyToken))
	})

	t.Run("a rotated refresh cookie replaces the stored value", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer new-token" {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[]`))
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie("astba_refresh")
			if err != nil || c.Value != "r1" {
				http.Error(w, "missing refresh cookie", http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "astba_refresh", Value: "r2", HttpOnly: true})
			json.NewEncoder(w).Encode(AuthPayload{AccessToken: "new-token"})
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))
		require.NoError(t, store.Set(session.KeyRefreshCookie, "r1"))

		_, err := c.ListUsers(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "r2", store.Get(session.KeyRefreshCookie))
	})

	t.Run("a refresh payload without a token counts as failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		})
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		c, store := newTestClient(t, mux)
		require.NoError(t, store.Set(session.KeyToken, "expired"))

		_, err := c.ListUsers(context.Background(), "")
		assert.True(t, IsAuthError(err))
		assert.Empty(t, store.Get(session.KeyToken))
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: 404, Message: "not found"}
	assert.Equal(t, "api error (404): not found", err.Error())
	assert.False(t, IsAuthError(err))

	empty := &APIError{Status: 401}
	assert.Contains(t, empty.Error(), "Unauthorized")
	assert.True(t, IsAuthError(empty))
	assert.False(t, IsAuthError(nil))
}
