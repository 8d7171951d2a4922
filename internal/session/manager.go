package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// Manager owns the session lifecycle: cookie resolution, sign-in state and flash messages.
type Manager struct {
	store  model.SessionStore
	signer model.CookieSigner
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewManager creates a Manager. A zero ttl means model.DefaultSessionDuration.
func NewManager(store model.SessionStore, signer model.CookieSigner, ttl time.Duration, logger *logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = model.DefaultSessionDuration
	}
	return &Manager{
		store:  store,
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load resolves cookie to a live session, or starts a new one when the cookie is
// missing, forged or points at an expired session. It returns the cookie value to send back.
func (m *Manager) Load(ctx context.Context, cookie string) (*model.Session, string, error) {
	if cookie != "" {
		id, err := m.signer.Parse(cookie)
		if err == nil {
			s, err := m.store.Get(ctx, id)
			if err == nil {
				return &s, cookie, nil
			}
			if !errors.Is(err, model.ErrSessionNotFound) {
				m.logger.Error("Session manager: failed to get session",
					"error", err.Error())
				return nil, "", fmt.Errorf("failed to get session: %w", err)
			}
		} else {
			m.logger.Debug("Session manager: rejected session cookie",
				"error", err.Error())
		}
	}

	return m.start(ctx)
}

func (m *Manager) start(ctx context.Context) (*model.Session, string, error) {
	now := m.now()
	s := model.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, s); err != nil {
		m.logger.Error("Session manager: failed to create session",
			"error", err.Error())
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	value, err := m.signer.Sign(s.ID, m.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	m.logger.Debug("Session manager: started session",
		"session_id", s.ID)
	return &s, value, nil
}

// IsSignedIn reports whether the session belongs to a signed-in user.
func (m *Manager) IsSignedIn(s *model.Session) bool {
	return s != nil && s.SignedInUser != ""
}

// RequireSignedIn returns model.ErrAuthRequired for anonymous sessions.
func (m *Manager) RequireSignedIn(s *model.Session) error {
	if !m.IsSignedIn(s) {
		return model.ErrAuthRequired
	}
	return nil
}

// SignIn moves the user into a fresh session and deletes the old one.
// s is updated in place; callers reissue the cookie with Cookie.
func (m *Manager) SignIn(ctx context.Context, s *model.Session, username string) error {
	now := m.now()
	next := model.Session{
		ID:           uuid.NewString(),
		SignedInUser: username,
		Flash:        s.Flash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, next); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := m.store.Delete(ctx, s.ID); err != nil {
		m.logger.Error("Session manager: failed to drop pre-sign-in session",
			"session_id", s.ID,
			"error", err.Error())
	}
	*s = next

	m.logger.Info("Session manager: user signed in",
		"username", username)
	return nil
}

// Cookie returns a signed cookie value for s.
func (m *Manager) Cookie(s *model.Session) (string, error) {
	value, err := m.signer.Sign(s.ID, m.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return value, nil
}

// SignOut clears the signed-in user and returns who it was.
func (m *Manager) SignOut(ctx context.Context, s *model.Session) (string, error) {
	username := s.SignedInUser
	if err := m.store.SetUser(ctx, s.ID, ""); err != nil {
		return "", fmt.Errorf("failed to sign out: %w", err)
	}
	s.SignedInUser = ""

	if username != "" {
		m.logger.Info("Session manager: user signed out",
			"username", username)
	}
	return username, nil
}

// SetFlash stores a message for the next rendered page. A later call replaces it.
func (m *Manager) SetFlash(ctx context.Context, s *model.Session, kind model.FlashKind, text string) error {
	flash := model.Flash{Kind: kind, Text: text}
	if err := m.store.SetFlash(ctx, s.ID, flash); err != nil {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	s.Flash = &flash
	return nil
}

// TakeFlash returns the pending message, if any, and clears it.
func (m *Manager) TakeFlash(ctx context.Context, s *model.Session) (*model.Flash, error) {
	flash, err := m.store.PopFlash(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to take flash: %w", err)
	}
	s.Flash = nil
	return flash, nil
}

// Sweep deletes expired sessions from the store.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		m.logger.Error("Session manager: failed to sweep sessions",
			"error", err.Error())
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	if n > 0 {
		m.logger.Debug("Session manager: swept expired sessions",
			"count", n)
	}
	return n, nil
}

// RunJanitor calls Sweep every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = m.Sweep(ctx)
		}
	}
}
