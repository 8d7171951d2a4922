package model

import (
	"errors"
	"html/template"
	"path"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentFormat tells how a document is presented.
type DocumentFormat string

const (
	// FormatText is served verbatim as text/plain.
	FormatText DocumentFormat = "text"
	// FormatMarkdown is rendered to HTML inside the page layout.
	FormatMarkdown DocumentFormat = "markdown"
)

// Document extensions accepted on creation.
const (
	ExtText     = ".txt"
	ExtMarkdown = ".md"
)

// Document is a named piece of stored text.
type Document struct {
	Name    string
	Content []byte
}

// DocumentView is a document prepared for display.
type DocumentView struct {
	Document
	// HTML is set for markdown documents only.
	HTML template.HTML
}

// Format returns the presentation format derived from the name extension.
func (d Document) Format() DocumentFormat {
	return FormatOf(d.Name)
}

// FormatOf returns the presentation format for a document name.
func FormatOf(name string) DocumentFormat {
	if strings.EqualFold(path.Ext(name), ExtMarkdown) {
		return FormatMarkdown
	}
	return FormatText
}

var errUnsafeName = errors.New("must be a plain file name")

var errExtension = errors.New("must end with " + ExtText + " or " + ExtMarkdown)

// ValidateDocumentName checks a name for a new document.
// The name must be non-empty, a single visible path element that is safe in a URL
// path, and end with a known extension.
func ValidateDocumentName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.By(safeName),
		validation.By(knownExtension),
	)
	if err != nil {
		return errors.Join(ErrInvalidName, err)
	}
	return nil
}

// IsSafeName reports whether name can be used as a single storage key.
func IsSafeName(name string) bool {
	return name != "" && safeName(name) == nil
}

func safeName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	// Leading dots are hidden from listings; #, ? and % would change the meaning of document URLs.
	if strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\#?%`) {
		return errUnsafeName
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return errUnsafeName
	}
	return nil
}

func knownExtension(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	base := strings.TrimSuffix(strings.TrimSuffix(name, ExtText), ExtMarkdown)
	if base == name || base == "" {
		return errExtension
	}
	return nil
}
