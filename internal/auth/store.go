package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MinPasswordLength is the minimum accepted password length for registration.
const MinPasswordLength = 6

// Credential file permissions.
const (
	credsDirPermissions  = 0750
	credsFilePermissions = 0600
)

// Sentinel errors for credential operations. Each failure mode is
// distinguishable so the presentation boundary can render a specific reason.
var (
	// ErrEmptyCredentials is returned when the username or password is empty.
	ErrEmptyCredentials = errors.New("auth: username and password cannot be empty")

	// ErrPasswordTooShort is returned when a registration password is under
	// MinPasswordLength characters.
	ErrPasswordTooShort = errors.New("auth: password too short")

	// ErrUsernameExists is returned when registering an already-taken username.
	ErrUsernameExists = errors.New("auth: username already exists")

	// ErrUnknownUser is returned when authenticating a username that is not registered.
	ErrUnknownUser = errors.New("auth: user not found")

	// ErrWrongPassword is returned when the password digest does not match.
	ErrWrongPassword = errors.New("auth: invalid password")
)

// Store is the credential store: an in-memory username to password-digest
// mapping persisted as a single flat JSON object, rewritten in full on every
// registration.
//
// Usernames are case-sensitive; no normalisation is applied.
type Store struct {
	path  string
	mu    sync.Mutex
	users map[string]string // username -> hex digest
}

// Open creates a credential store backed by the given file path and loads
// any existing credentials.
//
// A missing file yields an empty store and nil error. An unreadable or
// corrupt file also yields an empty store but returns the error, so the
// composition root can warn: registrations from that point would overwrite
// the broken file.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		users: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading credential file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		s.users = make(map[string]string)
		return s, fmt.Errorf("parsing credential file %s: %w", path, err)
	}

	return s, nil
}

// Register creates a new credential entry and persists the full mapping.
//
// Returns ErrEmptyCredentials, ErrPasswordTooShort or ErrUsernameExists
// without touching the store. A persistence failure rolls the new entry
// back so memory and disk stay consistent.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUsernameExists
	}

	s.users[username] = HashPassword(password)
	if err := s.saveLocked(ctx); err != nil {
		delete(s.users, username)
		return err
	}
	return nil
}

// Authenticate checks a username/password pair against the stored digests.
//
// Returns nil on an exact digest match, and one of ErrEmptyCredentials,
// ErrUnknownUser or ErrWrongPassword otherwise.
func (s *Store) Authenticate(_ context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	s.mu.Lock()
	digest, exists := s.users[username]
	s.mu.Unlock()

	if !exists {
		return ErrUnknownUser
	}
	if !VerifyPassword(password, digest) {
		return ErrWrongPassword
	}
	return nil
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// saveLocked rewrites the credential file wholesale.
// Callers must hold the lock.
func (s *Store) saveLocked(_ context.Context) error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), credsDirPermissions); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, credsFilePermissions); err != nil {
		return fmt.Errorf("writing credential file %s: %w", s.path, err)
	}
	return nil
}
