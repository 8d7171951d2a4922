package context

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/filecms/internal/model"
)

// Locals keys used to store per-request state on the fiber context.
const (
	sessionKey   = "cms.session"
	documentsKey = "cms.documents"
)

var _ model.ContextManager = (*Manager)(nil)

// Manager represents a fiber context manager for request-scoped state.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSession stores the session resolved for the request.
func (m *Manager) SetSession(c *fiber.Ctx, session *model.Session) {
	c.Locals(sessionKey, session)
}

// GetSession returns the session stored by SetSession.
func (m *Manager) GetSession(c *fiber.Ctx) (*model.Session, bool) {
	session, ok := c.Locals(sessionKey).(*model.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// SetDocuments stores the document listing for the request.
func (m *Manager) SetDocuments(c *fiber.Ctx, names []string) {
	c.Locals(documentsKey, names)
}

// GetDocuments returns the listing stored by SetDocuments, or nil.
func (m *Manager) GetDocuments(c *fiber.Ctx) []string {
	names, _ := c.Locals(documentsKey).([]string)
	return names
}
