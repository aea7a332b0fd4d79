package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Storage keys, kept identical to the keys the web console writes to browser
// storage so a session file is readable alongside the old client.
const (
	KeyToken       = "token"
	KeyUserID      = "userId"
	KeyEmail       = "userEmail"
	KeyRole        = "userRole"
	KeyFirstName   = "userFirstName"
	KeyLastName    = "userLastName"
	KeyPermissions = "userPermissions"

	// KeyRefreshCookie holds the server's refresh-session cookie. The web
	// console kept it in the browser's cookie jar; the CLI persists it here so
	// the refresh exchange works in any process after login.
	KeyRefreshCookie = "refreshCookie"
)

// AllKeys lists every key the store owns, in write order.
var AllKeys = []string{
	KeyToken,
	KeyUserID,
	KeyEmail,
	KeyRole,
	KeyFirstName,
	KeyLastName,
	KeyPermissions,
	KeyRefreshCookie,
}

// ErrNotInitialized is returned when the store is used before NewStore.
var ErrNotInitialized = errors.New("session store not initialized")

// Store persists the authenticated session as a small key/value file on the
// local filesystem. Values survive process restarts until explicitly removed.
// Every read loads current state from disk, so concurrent CLI invocations
// observe each other's writes.
type Store struct {
	baseDir string
}

type sessionFile struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// NewStore creates a session store rooted at baseDir.
// If baseDir is empty, uses ~/.astba/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".astba")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &Store{baseDir: baseDir}, nil
}

// Get returns the stored value for key, or the empty string when the key is
// unset or the session file is missing or unreadable.
func (s *Store) Get(key string) string {
	f, err := s.load()
	if err != nil {
		return ""
	}
	return f.Values[key]
}

// Set writes a single key.
func (s *Store) Set(key, value string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	f.Values[key] = value
	return s.save(f)
}

// Remove deletes a single key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := f.Values[key]; !ok {
		return nil
	}
	delete(f.Values, key)
	return s.save(f)
}

// Clear removes every session key.
func (s *Store) Clear() error {
	return s.save(&sessionFile{Version: 1, Values: make(map[string]string)})
}

// Permissions returns the stored permission list. Malformed or missing data
// yields an empty slice, never an error.
func (s *Store) Permissions() []string {
	raw := s.Get(KeyPermissions)
	if raw == "" {
		return []string{}
	}

	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		log.Debug().Err(err).Msg("discarding malformed stored permissions")
		return []string{}
	}
	return perms
}

// SetPermissions stores the permission list as JSON text.
func (s *Store) SetPermissions(perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	data, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	return s.Set(KeyPermissions, string(data))
}

// load reads the session file. A missing or corrupt file is treated as an
// empty session rather than an error, matching how the web console handled
// wiped browser storage.
func (s *Store) load() (*sessionFile, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return &sessionFile{Version: 1, Values: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Debug().Err(err).Msg("session file corrupt, starting empty")
		return &sessionFile{Version: 1, Values: make(map[string]string)}, nil
	}
	if f.Values == nil {
		f.Values = make(map[string]string)
	}
	return &f, nil
}

// save writes the session file atomically.
func (s *Store) save(f *sessionFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := s.path()
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, "session.json")
}
