package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"fileshare/internal/domain"
)

// SessionTTL is how long a session stays valid after creation.
const SessionTTL = time.Hour

// SessionRegistry issues, resolves and revokes opaque session tokens.
type SessionRegistry interface {
	Create(username string) (string, error)
	Resolve(sessionID string) (string, bool)
	Revoke(sessionID string)
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry returns an in-memory registry with a one hour TTL.
// Expired sessions are evicted lazily on lookup; there is no background
// sweeper, so sessions that are abandoned and never looked up again stay in
// memory until the process exits.
func NewSessionRegistry() SessionRegistry {
	return newSessionRegistry(SessionTTL, time.Now)
}

func newSessionRegistry(ttl time.Duration, now func() time.Time) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      now,
	}
}

// Create issues a 128-bit random token bound to username.
func (r *sessionRegistry) Create(username string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	id := hex.EncodeToString(buf[:])

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = domain.Session{
		ID:        id,
		Username:  username,
		ExpiresAt: r.now().Add(r.ttl),
	}
	return id, nil
}

// Resolve returns the username bound to sessionID, if the session exists and
// has not expired. An expired record is removed as a side effect.
func (r *sessionRegistry) Resolve(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return "", false
	}
	if sess.Expired(r.now()) {
		delete(r.sessions, sessionID)
		return "", false
	}
	return sess.Username, true
}

// Revoke removes the session unconditionally. Revoking an absent id is a
// no-op.
func (r *sessionRegistry) Revoke(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}
