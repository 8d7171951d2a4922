package router

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/filecms/internal/api/http/handler"
	"github.com/dtroode/filecms/internal/api/http/middleware"
	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// DocumentService is what the routes need from the document service.
type DocumentService interface {
	handler.DocumentService
	middleware.DocumentLister
}

// SessionManager is what the routes need from the session manager.
type SessionManager interface {
	handler.SessionManager
	middleware.SessionLoader
	SetFlash(ctx context.Context, s *model.Session, kind model.FlashKind, text string) error
	TakeFlash(ctx context.Context, s *model.Session) (*model.Flash, error)
}

// Config holds the HTTP surface settings.
type Config struct {
	CookieName   string
	SecureCookie bool
}

// Router represents the HTTP router of the CMS.
type Router struct {
	documentService DocumentService
	authService     handler.AuthService
	sessions        SessionManager
	contextManager  model.ContextManager
	views           fiber.Views
	layout          string
	config          Config
	logger          *logger.Logger
}

// New creates new Router instance.
func New(
	documentService DocumentService,
	authService handler.AuthService,
	sessions SessionManager,
	contextManager model.ContextManager,
	views fiber.Views,
	layout string,
	config Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		documentService: documentService,
		authService:     authService,
		sessions:        sessions,
		contextManager:  contextManager,
		views:           views,
		layout:          layout,
		config:          config,
		logger:          logger,
	}
}

// Register builds the fiber application with all routes and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 r.views,
		ViewsLayout:           r.layout,
		UnescapePath:          true,
		Immutable:             true,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          r.handleError,
	})

	logging := middleware.NewLogging(r.logger)
	session := middleware.NewSession(
		r.sessions,
		r.documentService,
		r.contextManager,
		middleware.CookieConfig{Name: r.config.CookieName, Secure: r.config.SecureCookie},
		r.logger,
	)

	app.Use(recover.New())
	app.Use(logging.Handle)
	app.Use(session.Handle)

	documents := handler.NewDocument(r.documentService, r.sessions, r.logger)
	auth := handler.NewAuth(r.authService, r.sessions, r.logger)

	app.Get("/", r.serve(documents.Index))

	app.Get("/users/signin", r.serve(auth.SignInForm))
	app.Post("/users/signin", r.serve(auth.SignIn))
	app.Post("/users/signout", r.serve(auth.SignOut))

	app.Get("/document/new", r.serve(documents.New))
	app.Post("/document/new", r.serve(documents.Create))

	app.Get("/:filename", r.serve(documents.Show))
	app.Get("/:filename/edit", r.serve(documents.Edit))
	app.Post("/:filename/edit", r.serve(documents.Update))
	app.Post("/:filename/delete", r.serve(documents.Delete))

	app.Use(r.serve(documents.NotFound))

	return app
}

// serve adapts a handler to fiber: it builds the request, then commits the action
// or turns the error into a flash and a redirect home.
func (r *Router) serve(h handler.Func) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := r.contextManager.GetSession(c)
		if !ok {
			return errors.New("session is not loaded")
		}

		req := &handler.Request{
			Session:   session,
			Documents: r.contextManager.GetDocuments(c),
			Filename:  c.Params("filename"),
			Form: map[string]string{
				"filename":      c.FormValue("filename"),
				"file_contents": c.FormValue("file_contents"),
				"username":      c.FormValue("username"),
				"password":      c.FormValue("password"),
			},
		}

		action, err := h(c.UserContext(), req)
		if err != nil {
			return r.fail(c, req, err)
		}
		return r.commit(c, req, action)
	}
}

func (r *Router) fail(c *fiber.Ctx, req *handler.Request, err error) error {
	flash, known := handler.FlashFor(err)
	if !known {
		r.logger.Error("Router: unhandled failure",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error())
	}

	// Redirecting a failed home page back home would loop.
	if c.Path() == "/" && (c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead) {
		return internalError(c)
	}

	if err := r.sessions.SetFlash(c.UserContext(), req.Session, flash.Kind, flash.Text); err != nil {
		r.logger.Error("Router: failed to store flash",
			"error", err.Error())
		return internalError(c)
	}

	return c.Redirect("/", fiber.StatusFound)
}

func (r *Router) commit(c *fiber.Ctx, req *handler.Request, action handler.Action) error {
	switch a := action.(type) {
	case handler.Redirect:
		if a.Flash != nil {
			if err := r.sessions.SetFlash(c.UserContext(), req.Session, a.Flash.Kind, a.Flash.Text); err != nil {
				r.logger.Error("Router: failed to store flash",
					"error", err.Error())
				return internalError(c)
			}
		}
		return c.Redirect(a.Location, fiber.StatusFound)

	case handler.Raw:
		c.Set(fiber.HeaderContentType, a.ContentType)
		return c.Status(statusOr(a.Status)).Send(a.Body)

	case handler.Render:
		flash, err := r.sessions.TakeFlash(c.UserContext(), req.Session)
		if err != nil {
			r.logger.Error("Router: failed to take flash",
				"error", err.Error())
			return internalError(c)
		}

		data := fiber.Map{}
		for k, v := range a.Data {
			data[k] = v
		}
		data["Flash"] = flash
		data["SignedInUser"] = req.Session.SignedInUser
		data["Documents"] = req.Documents

		return c.Status(statusOr(a.Status)).Render(a.Template, data)

	default:
		return errors.New("unknown handler action")
	}
}

// handleError is the last resort for failures outside the handlers.
func (r *Router) handleError(c *fiber.Ctx, err error) error {
	r.logger.Error("Router: request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error())
	return internalError(c)
}

func internalError(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).SendString(handler.MessageInternalError)
}

func statusOr(status int) int {
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}
