package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts stored markdown to HTML for display. It is applied to
// assistant messages at view time only, so the stored content stays canonical.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a markdown renderer with fenced code blocks and syntax
// highlighting. Raw HTML in the source is escaped, not passed through.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("friendly"),
				),
			),
		),
	}
}

// HTML converts markdown source to an HTML fragment. Conversion is
// best-effort: on failure the escaped literal text is returned so a bad
// message can never abort rendering the page.
func (r *Renderer) HTML(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}
	return buf.String()
}
