package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// MessageInvalidCredentials is shown inline on a failed sign-in.
const MessageInvalidCredentials = "Invalid Credentials"

// Auth serves the sign-in and sign-out routes.
type Auth struct {
	authService AuthService
	sessions    SessionManager
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, sessions SessionManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// SignInForm renders the sign-in form.
func (h *Auth) SignInForm(_ context.Context, _ *Request) (Action, error) {
	return Render{Template: "signin"}, nil
}

// SignIn verifies the credentials. A failure re-renders the form keeping the username.
func (h *Auth) SignIn(ctx context.Context, req *Request) (Action, error) {
	username := req.FormValue("username")
	password := req.FormValue("password")

	err := h.authService.Authenticate(ctx, username, password)
	if errors.Is(err, model.ErrInvalidCredentials) {
		return Render{
			Template: "signin",
			Status:   fiber.StatusOK,
			Data: fiber.Map{
				"Username": username,
				"Error":    MessageInvalidCredentials,
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := h.sessions.SignIn(ctx, req.Session, username); err != nil {
		return nil, err
	}

	return redirectHome(success(fmt.Sprintf("%s is now logged in.", username))), nil
}

// SignOut clears the signed-in user.
func (h *Auth) SignOut(ctx context.Context, req *Request) (Action, error) {
	if _, err := h.sessions.SignOut(ctx, req.Session); err != nil {
		return nil, err
	}
	return redirectHome(success("You have been signed out.")), nil
}
