package domain

import "time"

// Session binds an opaque token to a username for a bounded time window.
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
