// Package render converts item markdown to display HTML for the detail
// endpoint. Descriptions and long-form content are canonical markdown after
// normalization; this is the only place they become HTML.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	domainerrors "github.com/foliolab/folio-server/internal/errors"
)

// Markdown renders item markdown to HTML.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a GFM renderer. Content comes from the owner's own
// records, so raw HTML passthrough is allowed.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.Strikethrough,
				extension.Table,
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// HTML renders markdown source to HTML.
func (r *Markdown) HTML(src string) (string, error) {
	if src == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "render markdown")
	}
	return buf.String(), nil
}
