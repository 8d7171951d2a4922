package handler

import (
	"context"

	"github.com/dtroode/filecms/internal/model"
)

// DocumentService defines business operations on documents.
type DocumentService interface {
	Read(ctx context.Context, name string) (model.Document, error)
	View(ctx context.Context, name string) (model.DocumentView, error)
	Create(ctx context.Context, name string) error
	Update(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// AuthService checks sign-in attempts.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) error
}

// SessionManager changes the sign-in state of a session.
type SessionManager interface {
	RequireSignedIn(s *model.Session) error
	SignIn(ctx context.Context, s *model.Session, username string) error
	SignOut(ctx context.Context, s *model.Session) (string, error)
}
