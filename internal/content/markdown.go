package content

import (
	"bytes"
	"fmt"
	"regexp"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// classPattern limits class attributes kept by the sanitiser to simple names
// such as "math inline" or "language-go".
var classPattern = regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)

// Renderer converts Markdown to HTML. Math written as $...$ or $$...$$ is
// emitted inside span.math elements with \( \) and \[ \] delimiters, ready
// for KaTeX auto-render on the client.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a Renderer. When sanitize is true the HTML is passed
// through a user-generated-content policy that still keeps math markup.
func NewRenderer(sanitize bool) *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			mathjax.MathJax,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	r := &Renderer{engine: engine}
	if sanitize {
		r.policy = newPolicy()
	}

	return r
}

// Render converts markdown into an HTML fragment.
func (r *Renderer) Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}

	if r.policy == nil {
		return buf.String(), nil
	}

	return r.policy.Sanitize(buf.String()), nil
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).OnElements("span", "div", "code", "pre", "sup", "section", "li", "a")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup", "section")
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^doc-[a-z]+$`)).OnElements("a", "section")

	return p
}
