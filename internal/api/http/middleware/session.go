package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// SessionLoader resolves the session cookie.
type SessionLoader interface {
	Load(ctx context.Context, cookie string) (*model.Session, string, error)
	Cookie(s *model.Session) (string, error)
	TTL() time.Duration
}

// DocumentLister lists the stored documents.
type DocumentLister interface {
	List(ctx context.Context) ([]string, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Session attaches the browser session and the document listing to every request.
type Session struct {
	sessions       SessionLoader
	documents      DocumentLister
	contextManager model.ContextManager
	cookie         CookieConfig
	logger         *logger.Logger
}

// NewSession creates a new Session middleware.
func NewSession(
	sessions SessionLoader,
	documents DocumentLister,
	contextManager model.ContextManager,
	cookie CookieConfig,
	logger *logger.Logger,
) *Session {
	return &Session{
		sessions:       sessions,
		documents:      documents,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

// Handle loads or starts the session and issues its cookie when it changed.
// A handler that replaces the session, as sign-in does, gets a new cookie too.
func (m *Session) Handle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	incoming := c.Cookies(m.cookie.Name)
	session, value, err := m.sessions.Load(ctx, incoming)
	if err != nil {
		return err
	}

	if value != incoming {
		m.setCookie(c, value)
	}
	m.contextManager.SetSession(c, session)

	names, err := m.documents.List(ctx)
	if err != nil {
		return err
	}
	m.contextManager.SetDocuments(c, names)

	loadedID := session.ID
	err = c.Next()

	if session.ID != loadedID {
		rotated, cookieErr := m.sessions.Cookie(session)
		if cookieErr != nil {
			m.logger.Error("Session middleware: failed to reissue cookie",
				"error", cookieErr.Error())
			return errors.Join(err, cookieErr)
		}
		m.setCookie(c, rotated)
	}

	return err
}

func (m *Session) setCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.sessions.TTL().Seconds()),
		Secure:   m.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
