package service

import (
	"context"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

type Auth struct {
	credentials model.CredentialStore
	logger      *logger.Logger
}

func NewAuth(credentials model.CredentialStore, logger *logger.Logger) *Auth {
	return &Auth{
		credentials: credentials,
		logger:      logger,
	}
}

// Authenticate checks the credentials and returns model.ErrInvalidCredentials on mismatch.
func (a *Auth) Authenticate(_ context.Context, username, password string) error {
	if !a.credentials.Verify(username, password) {
		a.logger.Info("Auth service: rejected sign-in",
			"username", username)
		return model.ErrInvalidCredentials
	}

	a.logger.Debug("Auth service: accepted sign-in",
		"username", username)
	return nil
}
