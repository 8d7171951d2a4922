package model

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidName is returned when a document name is empty, unsafe or has no known extension.
	ErrInvalidName = errors.New("invalid document name")
	// ErrAlreadyExists is returned when creating a document whose name is taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrAuthRequired is returned when a privileged operation is attempted without a signed-in user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrConfig is returned when the credentials configuration is unreadable or malformed.
	ErrConfig = errors.New("invalid credentials configuration")
	// ErrSessionNotFound is returned when a session does not exist or has expired.
	ErrSessionNotFound = errors.New("session not found")
)

// ErrInvalidCredentials is returned when a sign-in attempt does not match the credentials file.
var ErrInvalidCredentials = errors.New("invalid credentials")
