package model

import "github.com/gofiber/fiber/v2"

// ContextManager keeps per-request state on the fiber context.
type ContextManager interface {
	SetSession(c *fiber.Ctx, session *Session)
	GetSession(c *fiber.Ctx) (*Session, bool)
	SetDocuments(c *fiber.Ctx, names []string)
	GetDocuments(c *fiber.Ctx) []string
}
