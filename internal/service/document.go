package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"slices"

	"github.com/dtroode/filecms/internal/logger"
	"github.com/dtroode/filecms/internal/model"
)

// MarkdownRenderer turns markdown source into HTML.
type MarkdownRenderer interface {
	Render(source []byte) ([]byte, error)
}

type Document struct {
	store    model.DocumentStore
	renderer MarkdownRenderer
	logger   *logger.Logger
}

func NewDocument(store model.DocumentStore, renderer MarkdownRenderer, logger *logger.Logger) *Document {
	return &Document{
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// List returns document names in lexical order.
func (s *Document) List(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Document service: failed to list documents",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Read returns the raw document.
func (s *Document) Read(ctx context.Context, name string) (model.Document, error) {
	content, err := s.store.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Document service: failed to read document",
				"name", name,
				"error", err.Error())
		}
		return model.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return model.Document{Name: name, Content: content}, nil
}

// View reads the document and renders it when it is markdown.
func (s *Document) View(ctx context.Context, name string) (model.DocumentView, error) {
	doc, err := s.Read(ctx, name)
	if err != nil {
		return model.DocumentView{}, err
	}

	view := model.DocumentView{Document: doc}
	if doc.Format() != model.FormatMarkdown {
		return view, nil
	}

	html, err := s.renderer.Render(doc.Content)
	if err != nil {
		s.logger.Error("Document service: failed to render markdown",
			"name", name,
			"error", err.Error())
		return model.DocumentView{}, fmt.Errorf("failed to render document: %w", err)
	}
	view.HTML = template.HTML(html)
	return view, nil
}

// Create adds an empty document.
func (s *Document) Create(ctx context.Context, name string) error {
	if err := s.store.Create(ctx, name); err != nil {
		if !errors.Is(err, model.ErrInvalidName) && !errors.Is(err, model.ErrAlreadyExists) {
			s.logger.Error("Document service: failed to create document",
				"name", name,
				"error", err.Error())
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	s.logger.Info("Document service: document created",
		"name", name)
	return nil
}

// Update overwrites an existing document. Missing documents report model.ErrNotFound.
func (s *Document) Update(ctx context.Context, name string, content []byte) error {
	if _, err := s.Read(ctx, name); err != nil {
		return err
	}

	if err := s.store.Write(ctx, name, content); err != nil {
		s.logger.Error("Document service: failed to write document",
			"name", name,
			"error", err.Error())
		return fmt.Errorf("failed to update document: %w", err)
	}

	s.logger.Info("Document service: document updated",
		"name", name,
		"size", len(content))
	return nil
}

// Delete removes a document.
func (s *Document) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Document service: failed to delete document",
				"name", name,
				"error", err.Error())
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Info("Document service: document deleted",
		"name", name)
	return nil
}
