package render

import (
	"fmt"

	"github.com/inkwell-app/core/internal/models"
)

// Section is one structural unit of a rendered document.
type Section struct {
	Heading    string
	Paragraphs []string
}

// Document is the renderer-agnostic structure produced by a generation run.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Renderer turns a Document into a downloadable file body.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Ext() string
}

// ForFormat returns the renderer for a document format.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case models.FormatPDF:
		return &PDFRenderer{}, nil
	case models.FormatDOCX:
		return &DOCXRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
