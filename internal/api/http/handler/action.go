package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/filecms/internal/model"
)

// Action is the outcome of a handler. The router commits it to the response.
type Action interface {
	action()
}

// Render renders a page template inside the layout.
type Render struct {
	Template string
	Data     fiber.Map
	// Status defaults to 200.
	Status int
}

// Redirect sends the browser to Location, storing Flash for the next rendered page.
type Redirect struct {
	Location string
	Flash    *model.Flash
}

// Raw writes Body verbatim.
type Raw struct {
	Body        []byte
	ContentType string
	// Status defaults to 200.
	Status int
}

func (Render) action()   {}
func (Redirect) action() {}
func (Raw) action()      {}

// Request carries everything a handler may look at.
type Request struct {
	Session   *model.Session
	Documents []string
	// Filename is the :filename path parameter, if the route has one.
	Filename string
	Form     map[string]string
}

// FormValue returns the submitted form field or an empty string.
func (r *Request) FormValue(key string) string {
	return r.Form[key]
}

// Func handles one route.
type Func func(ctx context.Context, req *Request) (Action, error)

func success(text string) *model.Flash {
	return &model.Flash{Kind: model.FlashSuccess, Text: text}
}

func redirectHome(flash *model.Flash) Redirect {
	return Redirect{Location: "/", Flash: flash}
}
