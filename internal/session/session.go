package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/shopfront/session.toml"

// Identity is the persisted session: an opaque bearer credential plus the
// denormalized user record it belongs to.
type Identity struct {
	Token     string `toml:"token"`
	UserID    string `toml:"user_id"`
	UserName  string `toml:"user_name"`
	UserEmail string `toml:"user_email"`
	UserRole  string `toml:"user_role"`
}

// Store holds the session identity in memory and mirrors it to disk. It is
// safe for concurrent use and implements api.Credentials.
type Store struct {
	mu       sync.RWMutex
	path     string
	identity Identity
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Open loads any persisted session from path (empty uses the default).
// A missing or unreadable file yields a signed-out store, not an error.
func Open(path string) *Store {
	s := &Store{path: path}

	resolved, err := s.resolvePath()
	if err != nil {
		return s
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return s
	}
	var identity Identity
	if err := toml.Unmarshal(raw, &identity); err != nil {
		return s // corrupt file, treat as signed out
	}
	if strings.TrimSpace(identity.Token) == "" {
		return s
	}
	s.identity = identity
	return s
}

// Token returns the bearer credential, or empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Token
}

// UserID returns the signed-in user's id, or empty when signed out.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.UserID
}

// Identity returns a copy of the current identity.
func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SignedIn reports whether a credential is present.
func (s *Store) SignedIn() bool {
	return s.Token() != ""
}

// Save replaces the identity and persists it.
func (s *Store) Save(identity Identity) error {
	if strings.TrimSpace(identity.Token) == "" {
		return fmt.Errorf("refusing to save session without credential")
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	return s.write(identity)
}

// Clear drops the identity from memory and disk. Called on logout and by
// the API client when the server rejects the credential. Clearing an
// already-empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.identity.Token != ""
	s.identity = Identity{}
	s.mu.Unlock()

	if !had {
		return nil
	}
	resolved, err := s.resolvePath()
	if err != nil {
		return nil
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) write(identity Identity) error {
	resolved, err := s.resolvePath()
	if err != nil {
		return fmt.Errorf("resolve session path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := toml.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// The file carries the credential, so keep it owner-readable only.
	if err := os.WriteFile(resolved, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) resolvePath() (string, error) {
	path := s.path
	if strings.TrimSpace(path) == "" {
		path = defaultSessionPath
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
