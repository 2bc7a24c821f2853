package service

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"

	"fileshare/internal/domain"
)

// CredentialStore answers identity and permission questions against the
// user store loaded at startup.
type CredentialStore interface {
	Verify(username, password string) bool
	HasPermission(username, permission string) bool
}

type credentialStore struct {
	users map[string]domain.User
}

// NewCredentialStore reads the JSON user store at path. The store maps
// usernames to {password, permissions}. A missing or unreadable file is an
// error; callers treat it as fatal so the process never serves without
// accounts.
//
// Passwords are compared as stored, in plain text. That mirrors the user
// store contract; it is a known weakness of the store format, not something
// this layer papers over.
func NewCredentialStore(path string) (CredentialStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read user store: %w", err)
	}

	var users map[string]domain.User
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("parse user store %s: %w", path, err)
	}

	for name, u := range users {
		u.Username = name
		users[name] = u
	}

	return &credentialStore{users: users}, nil
}

func (s *credentialStore) Verify(username, password string) bool {
	u, ok := s.users[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

func (s *credentialStore) HasPermission(username, permission string) bool {
	u, ok := s.users[username]
	if !ok {
		return false
	}
	return u.HasPermission(permission)
}
