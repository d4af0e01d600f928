// Package content turns Markdown source files into post records.
//
// Processing is a linear pipeline over a single document:
//
//	frontmatter -> HTML (with math) -> plain text -> excerpt and reading time
//
// Each stage failing is reported as a domain.MalformedError naming the stage,
// so loaders can skip the file and keep going.
package content

import (
	"context"
	"strings"

	"github.com/bour278/bourbaki/internal/domain"
)

// Pipeline stage names used in MalformedError.
const (
	StageFrontmatter = "frontmatter"
	StageRender      = "render"
	StagePlainText   = "plaintext"
	StageMetadata    = "metadata"
)

// Options configures a Processor.
type Options struct {
	// ExcerptLength is the excerpt limit in runes.
	ExcerptLength int

	// WordsPerMinute is the reading speed for reading-time estimates.
	WordsPerMinute int

	// Sanitize enables HTML sanitising of rendered output.
	Sanitize bool
}

// Processed is the result of running one document through the pipeline.
type Processed struct {
	Frontmatter *Frontmatter
	Body        string
	HTML        string
	PlainText   string
	Excerpt     string
	ReadingTime int
}

// Processor runs the content pipeline. It holds no per-document state and
// may be shared between goroutines.
type Processor struct {
	renderer      *Renderer
	excerptLength int
	wpm           int
}

// NewProcessor creates a Processor, applying defaults for zero options.
func NewProcessor(opts Options) *Processor {
	if opts.ExcerptLength <= 0 {
		opts.ExcerptLength = DefaultExcerptLength
	}

	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = DefaultWordsPerMinute
	}

	return &Processor{
		renderer:      NewRenderer(opts.Sanitize),
		excerptLength: opts.ExcerptLength,
		wpm:           opts.WordsPerMinute,
	}
}

// Process parses source and derives HTML, plain text, excerpt and reading time.
// name identifies the document in errors.
func (p *Processor) Process(ctx context.Context, name string, source []byte) (*Processed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm, body, err := ParseFrontmatter(source)
	if err != nil {
		return nil, domain.NewMalformedError(name, StageFrontmatter, err)
	}

	if _, _, err := fm.Published(); err != nil {
		return nil, domain.NewMalformedError(name, StageMetadata, err)
	}

	html, err := p.renderer.Render(body)
	if err != nil {
		return nil, domain.NewMalformedError(name, StageRender, err)
	}

	text, err := PlainText(html)
	if err != nil {
		return nil, domain.NewMalformedError(name, StagePlainText, err)
	}

	return &Processed{
		Frontmatter: fm,
		Body:        strings.TrimLeft(string(body), "\r\n"),
		HTML:        html,
		PlainText:   text,
		Excerpt:     Excerpt(text, p.excerptLength),
		ReadingTime: ReadingTime(text, p.wpm),
	}, nil
}

// Render converts Markdown to HTML without the other pipeline stages.
func (p *Processor) Render(markdown []byte) (string, error) {
	return p.renderer.Render(markdown)
}
