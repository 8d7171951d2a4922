package model

import "time"

// CookieSigner wraps session IDs into tamper-proof cookie values.
type CookieSigner interface {
	Sign(sessionID string, ttl time.Duration) (string, error)
	Parse(value string) (sessionID string, err error)
}
