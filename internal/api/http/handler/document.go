package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// Document serves the document pages.
type Document struct {
	documentService DocumentService
	sessions        SessionManager
	logger          *logger.Logger
}

// NewDocument creates a new Document handler.
func NewDocument(documentService DocumentService, sessions SessionManager, logger *logger.Logger) *Document {
	return &Document{
		documentService: documentService,
		sessions:        sessions,
		logger:          logger,
	}
}

// Index renders the document list.
func (h *Document) Index(_ context.Context, _ *Request) (Action, error) {
	return Render{Template: "index"}, nil
}

// Show returns plain documents verbatim and markdown documents rendered in the layout.
func (h *Document) Show(ctx context.Context, req *Request) (Action, error) {
	view, err := h.documentService.View(ctx, req.Filename)
	if err != nil {
		return nil, documentError(req.Filename, err)
	}

	if view.Format() != model.FormatMarkdown {
		return Raw{Body: view.Content, ContentType: fiber.MIMETextPlainCharsetUTF8}, nil
	}

	return Render{
		Template: "document",
		Data: fiber.Map{
			"Name": view.Name,
			"HTML": view.HTML,
		},
	}, nil
}

// Edit renders the edit form pre-filled with the current content.
func (h *Document) Edit(ctx context.Context, req *Request) (Action, error) {
	if err := h.sessions.RequireSignedIn(req.Session); err != nil {
		return nil, err
	}

	doc, err := h.documentService.Read(ctx, req.Filename)
	if err != nil {
		return nil, documentError(req.Filename, err)
	}

	return Render{
		Template: "edit",
		Data: fiber.Map{
			"Name":    doc.Name,
			"Content": string(doc.Content),
		},
	}, nil
}

// Update overwrites an existing document with the submitted content.
func (h *Document) Update(ctx context.Context, req *Request) (Action, error) {
	if err := h.sessions.RequireSignedIn(req.Session); err != nil {
		return nil, err
	}

	content := []byte(req.FormValue("file_contents"))
	if err := h.documentService.Update(ctx, req.Filename, content); err != nil {
		return nil, documentError(req.Filename, err)
	}

	return redirectHome(success(fmt.Sprintf("%s has been updated.", req.Filename))), nil
}

// New renders the create form.
func (h *Document) New(_ context.Context, req *Request) (Action, error) {
	if err := h.sessions.RequireSignedIn(req.Session); err != nil {
		return nil, err
	}
	return Render{Template: "new"}, nil
}

// Create adds an empty document named by the filename form field.
func (h *Document) Create(ctx context.Context, req *Request) (Action, error) {
	if err := h.sessions.RequireSignedIn(req.Session); err != nil {
		return nil, err
	}

	name := req.FormValue("filename")
	if err := h.documentService.Create(ctx, name); err != nil {
		if errors.Is(err, model.ErrInvalidName) {
			h.logger.Debug("Document handler: rejected document name",
				"name", name)
		}
		return nil, documentError(name, err)
	}

	return redirectHome(success(fmt.Sprintf("%s has been created.", name))), nil
}

// Delete removes the document.
func (h *Document) Delete(ctx context.Context, req *Request) (Action, error) {
	if err := h.sessions.RequireSignedIn(req.Session); err != nil {
		return nil, err
	}

	if err := h.documentService.Delete(ctx, req.Filename); err != nil {
		return nil, documentError(req.Filename, err)
	}

	return redirectHome(success(fmt.Sprintf("%s has been deleted.", req.Filename))), nil
}

// NotFound handles any path no other route matched.
func (h *Document) NotFound(_ context.Context, _ *Request) (Action, error) {
	return nil, model.ErrNotFound
}
