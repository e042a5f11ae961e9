package render

import (
	"strings"
	"testing"
)

func TestHTMLRendersParagraphs(t *testing.T) {
	r := New()
	out := r.HTML("hello **bold** world")
	if !strings.Contains(out, "<p>hello <strong>bold</strong> world</p>") {
		t.Fatalf("out = %q, want paragraph with strong", out)
	}
}

func TestHTMLRendersFencedCodeWithHighlighting(t *testing.T) {
	r := New()
	out := r.HTML("```go\nfmt.Println(\"hi\")\n```")
	if !strings.Contains(out, "<pre") {
		t.Fatalf("out = %q, want a <pre> block", out)
	}
	if !strings.Contains(out, "style=") {
		t.Fatalf("out = %q, want inline highlight styles", out)
	}
	if !strings.Contains(out, "Println") {
		t.Fatalf("out = %q, want the code text preserved", out)
	}
}

func TestHTMLEscapesRawHTML(t *testing.T) {
	r := New()
	out := r.HTML(`before <script>alert("x")</script> after`)
	if strings.Contains(out, "<script>") {
		t.Fatalf("out = %q, raw script tag must not pass through", out)
	}
}

func TestHTMLBestEffortOnOddInput(t *testing.T) {
	r := New()
	cases := []string{
		"",
		"```\nunclosed fence",
		"| broken | table\n|---",
		strings.Repeat("*", 50),
	}
	for _, src := range cases {
		// Must not panic and must return something renderable.
		_ = r.HTML(src)
	}
}
