package handler

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/filecms/internal/mocks"
	"github.com/dtroode/filecms/internal/model"
	"github.com/dtroode/filecms/internal/testutil"
)

var (
	anonymous = &model.Session{ID: "anon"}
	signedIn  = &model.Session{ID: "user", SignedInUser: "admin"}
)

func newDocumentHandler(t *testing.T) (*Document, *mocks.DocumentService, *mocks.SessionManager) {
	t.Helper()
	docs := mocks.NewDocumentService(t)
	sessions := mocks.NewSessionManager(t)
	return NewDocument(docs, sessions, testutil.MakeNoopLogger()), docs, sessions
}

func TestDocument_Index(t *testing.T) {
	t.Parallel()
	h, _, _ := newDocumentHandler(t)

	action, err := h.Index(context.Background(), &Request{Session: anonymous})
	require.NoError(t, err)
	assert.Equal(t, Render{Template: "index"}, action)
}

func TestDocument_Show(t *testing.T) {
	t.Parallel()

	t.Run("text is raw", func(t *testing.T) {
		t.Parallel()
		h, docs, _ := newDocumentHandler(t)
		docs.On("View", mock.Anything, "changes.txt").Return(model.DocumentView{
			Document: model.Document{Name: "changes.txt", Content: []byte("Duis")},
		}, nil)

		action, err := h.Show(context.Background(), &Request{Filename: "changes.txt"})
		require.NoError(t, err)
		assert.Equal(t, Raw{Body: []byte("Duis"), ContentType: fiber.MIMETextPlainCharsetUTF8}, action)
	})

	t.Run("markdown is rendered", func(t *testing.T) {
		t.Parallel()
		h, docs, _ := newDocumentHandler(t)
		docs.On("View", mock.Anything, "about.md").Return(model.DocumentView{
			Document: model.Document{Name: "about.md", Content: []byte("# Dummy")},
			HTML:     template.HTML("<h1>Dummy</h1>"),
		}, nil)

		action, err := h.Show(context.Background(), &Request{Filename: "about.md"})
		require.NoError(t, err)
		render, ok := action.(Render)
		require.True(t, ok)
		assert.Equal(t, "document", render.Template)
		assert.Equal(t, template.HTML("<h1>Dummy</h1>"), render.Data["HTML"])
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		h, docs, _ := newDocumentHandler(t)
		docs.On("View", mock.Anything, "absent.txt").Return(model.DocumentView{}, model.ErrNotFound)

		action, err := h.Show(context.Background(), &Request{Filename: "absent.txt"})
		assert.Nil(t, action)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestDocument_RequiresSignIn(t *testing.T) {
	t.Parallel()

	routes := map[string]func(h *Document) Func{
		"edit":   func(h *Document) Func { return h.Edit },
		"update": func(h *Document) Func { return h.Update },
		"new":    func(h *Document) Func { return h.New },
		"create": func(h *Document) Func { return h.Create },
		"delete": func(h *Document) Func { return h.Delete },
	}

	for name, route := range routes {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h, _, sessions := newDocumentHandler(t)
			sessions.On("RequireSignedIn", anonymous).Return(model.ErrAuthRequired)

			req := &Request{
				Session:  anonymous,
				Filename: "changes.txt",
				Form:     map[string]string{"filename": "x.txt", "file_contents": "x"},
			}
			action, err := route(h)(context.Background(), req)
			assert.Nil(t, action)
			assert.ErrorIs(t, err, model.ErrAuthRequired)
		})
	}
}

func TestDocument_Edit(t *testing.T) {
	t.Parallel()
	h, docs, sessions := newDocumentHandler(t)
	sessions.On("RequireSignedIn", signedIn).Return(nil)
	docs.On("Read", mock.Anything, "changes.txt").Return(model.Document{Name: "changes.txt", Content: []byte("Duis")}, nil)

	action, err := h.Edit(context.Background(), &Request{Session: signedIn, Filename: "changes.txt"})
	require.NoError(t, err)
	assert.Equal(t, Render{
		Template: "edit",
		Data:     fiber.Map{"Name": "changes.txt", "Content": "Duis"},
	}, action)
}

func TestDocument_Update(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h, docs, sessions := newDocumentHandler(t)
		sessions.On("RequireSignedIn", signedIn).Return(nil)
		docs.On("Update", mock.Anything, "changes.txt", []byte("new content")).Return(nil)

		action, err := h.Update(context.Background(), &Request{
			Session:  signedIn,
			Filename: "changes.txt",
			Form:     map[string]string{"file_contents": "new content"},
		})
		require.NoError(t, err)
		assert.Equal(t, Redirect{Location: "/", Flash: success("changes.txt has been updated.")}, action)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		h, docs, sessions := newDocumentHandler(t)
		sessions.On("RequireSignedIn", signedIn).Return(nil)
		docs.On("Update", mock.Anything, "absent.txt", []byte{}).Return(model.ErrNotFound)

		_, err := h.Update(context.Background(), &Request{Session: signedIn, Filename: "absent.txt"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestDocument_New(t *testing.T) {
	t.Parallel()
	h, _, sessions := newDocumentHandler(t)
	sessions.On("RequireSignedIn", signedIn).Return(nil)

	action, err := h.New(context.Background(), &Request{Session: signedIn})
	require.NoError(t, err)
	assert.Equal(t, Render{Template: "new"}, action)
}

func TestDocument_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filename  string
		createErr error
		want      Action
		wantFlash string
	}{
		{
			name:     "created",
			filename: "New Document.txt",
			want:     Redirect{Location: "/", Flash: success("New Document.txt has been created.")},
		},
		{
			name:      "empty name",
			filename:  "",
			createErr: model.ErrInvalidName,
			wantFlash: MessageInvalidName,
		},
		{
			name:      "duplicate",
			filename:  "changes.txt",
			createErr: model.ErrAlreadyExists,
			wantFlash: "changes.txt already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, docs, sessions := newDocumentHandler(t)
			sessions.On("RequireSignedIn", signedIn).Return(nil)
			docs.On("Create", mock.Anything, tt.filename).Return(tt.createErr)

			action, err := h.Create(context.Background(), &Request{
				Session: signedIn,
				Form:    map[string]string{"filename": tt.filename},
			})
			if tt.createErr != nil {
				require.Error(t, err)
				flash, ok := FlashFor(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantFlash, flash.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, action)
		})
	}
}

func TestDocument_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		h, docs, sessions := newDocumentHandler(t)
		sessions.On("RequireSignedIn", signedIn).Return(nil)
		docs.On("Delete", mock.Anything, "changes.txt").Return(nil)

		action, err := h.Delete(context.Background(), &Request{Session: signedIn, Filename: "changes.txt"})
		require.NoError(t, err)
		assert.Equal(t, Redirect{Location: "/", Flash: success("changes.txt has been deleted.")}, action)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		h, docs, sessions := newDocumentHandler(t)
		sessions.On("RequireSignedIn", signedIn).Return(nil)
		docs.On("Delete", mock.Anything, "changes.txt").Return(errors.New("io"))

		_, err := h.Delete(context.Background(), &Request{Session: signedIn, Filename: "changes.txt"})
		_, ok := FlashFor(err)
		assert.False(t, ok)
	})
}

func TestDocument_NotFound(t *testing.T) {
	t.Parallel()
	h, _, _ := newDocumentHandler(t)

	_, err := h.NotFound(context.Background(), &Request{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
