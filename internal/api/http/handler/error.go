package handler

import (
	"errors"
	"fmt"

	"github.com/dtroode/filecms/internal/model"
)

// Flash texts shown for failures.
const (
	MessageNotFound      = "Sorry, the document you are looking for does not exist."
	MessageInvalidName   = "Failed to create new document"
	MessageAuthRequired  = "You must be signed in to do that."
	MessageUnknown       = "Something went wrong. Please try again."
	MessageInternalError = "an unknown server error has occurred"
)

// DocumentError attaches the document name to a failure.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func documentError(name string, err error) error {
	return &DocumentError{Name: name, Err: err}
}

// FlashFor maps a handler error to the message shown to the user.
// The second result is false for failures nobody anticipated.
func FlashFor(err error) (model.Flash, bool) {
	fail := func(text string) (model.Flash, bool) {
		return model.Flash{Kind: model.FlashError, Text: text}, true
	}

	switch {
	case errors.Is(err, model.ErrAuthRequired):
		return fail(MessageAuthRequired)
	case errors.Is(err, model.ErrNotFound):
		return fail(MessageNotFound)
	case errors.Is(err, model.ErrInvalidName):
		return fail(MessageInvalidName)
	case errors.Is(err, model.ErrAlreadyExists):
		var docErr *DocumentError
		if errors.As(err, &docErr) {
			return fail(docErr.Name + " already exists.")
		}
		return fail("That document already exists.")
	default:
		return model.Flash{Kind: model.FlashError, Text: MessageUnknown}, false
	}
}
