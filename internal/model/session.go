package model

import (
	"context"
	"time"
)

// DefaultSessionDuration is a TTL for browser sessions.
const DefaultSessionDuration = 24 * time.Hour

// FlashKind distinguishes confirmation messages from error messages.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind FlashKind
	Text string
}

// Session is the server-side state of one browser.
type Session struct {
	ID           string
	SignedInUser string
	Flash        *Flash
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// SessionStore persists sessions keyed by their opaque ID.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (Session, error)
	SetUser(ctx context.Context, id string, username string) error
	SetFlash(ctx context.Context, id string, flash Flash) error
	// PopFlash returns the pending flash and clears it in one step.
	PopFlash(ctx context.Context, id string) (*Flash, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
