package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bour278/bourbaki/internal/content"
	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/ports"
)

const tracerName = "github.com/bour278/bourbaki/internal/app"

// Skip reasons reported in LoadReport and metrics.
const (
	SkipMalformed  = "malformed"
	SkipUnreadable = "unreadable"
	SkipDraft      = "draft"
)

// LoadObserver receives load outcomes, typically to update metrics.
type LoadObserver interface {
	PostsLoaded(n int)
	PostSkipped(reason string)
}

// SkippedFile describes a source file that did not become a post.
type SkippedFile struct {
	File   string `json:"file"   yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
	Detail string `json:"detail" yaml:"detail,omitempty"`
}

// LoadReport summarises a content load.
type LoadReport struct {
	Dir         string        `json:"dir"         yaml:"dir"`
	// Loaded lists each stored slug once. Overwritten lists the slugs a
	// later file replaced.
	Loaded      []string      `json:"loaded"      yaml:"loaded"`
	Skipped     []SkippedFile `json:"skipped"     yaml:"skipped"`
	Overwritten []string      `json:"overwritten" yaml:"overwritten"`
	Duration    time.Duration `json:"duration"    yaml:"duration"`
}

// ContentLoaderConfig configures a ContentLoader.
type ContentLoaderConfig struct {
	Dir           string
	IncludeDrafts bool
	Processor     *content.Processor
	Repository    ports.PostRepository
	Observer      LoadObserver
	Logger        *slog.Logger
	// Workers bounds concurrent file processing. Defaults to GOMAXPROCS.
	Workers int
	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// ContentLoader reads the post directory into a repository.
type ContentLoader struct {
	dir           string
	includeDrafts bool
	processor     *content.Processor
	repo          ports.PostRepository
	observer      LoadObserver
	logger        *slog.Logger
	workers       int
	now           func() time.Time
}

// NewContentLoader creates a loader. Panics if Processor or Repository is nil.
func NewContentLoader(cfg ContentLoaderConfig) *ContentLoader {
	if cfg.Processor == nil {
		panic("app: ContentLoader requires a Processor")
	}

	if cfg.Repository == nil {
		panic("app: ContentLoader requires a Repository")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &ContentLoader{
		dir:           cfg.Dir,
		includeDrafts: cfg.IncludeDrafts,
		processor:     cfg.Processor,
		repo:          cfg.Repository,
		observer:      cfg.Observer,
		logger:        logger.With(slog.String("component", "app.ContentLoader")),
		workers:       workers,
		now:           now,
	}
}

type parsedFile struct {
	name string
	out  *content.Processed
}

// Load processes every post file in the directory and stores the results.
// Files that fail to parse are skipped and reported, never fatal. A missing
// directory yields an empty report; other directory errors are returned.
func (l *ContentLoader) Load(ctx context.Context) (*LoadReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "content.load")
	defer span.End()

	start := time.Now()
	report := &LoadReport{
		Dir:         l.dir,
		Loaded:      []string{},
		Skipped:     []SkippedFile{},
		Overwritten: []string{},
	}

	names, err := l.discover()
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.WarnContext(ctx, "posts directory does not exist", slog.String("dir", l.dir))
		l.observePosts(ctx)
		return report, nil
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading posts directory")

		return nil, fmt.Errorf("reading posts directory %s: %w", l.dir, err)
	}

	fns := make([]func(context.Context) (parsedFile, error), len(names))
	for i, name := range names {
		fns[i] = func(ctx context.Context) (parsedFile, error) {
			return l.parse(ctx, name)
		}
	}

	results := ParallelPartialLimit(ctx, l.workers, fns...)

	now := l.now()
	nextID := l.repo.Count(ctx) + 1

	for i, res := range results {
		name := names[i]

		if res.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			l.skip(ctx, report, name, reasonFor(res.Err), res.Err)
			continue
		}

		if res.Value.out.Frontmatter.Draft && !l.includeDrafts {
			l.skip(ctx, report, name, SkipDraft, nil)
			continue
		}

		post := res.Value.out.ToPost(nextID, name, now)

		replaced, err := l.repo.Put(ctx, post)
		if err != nil {
			l.skip(ctx, report, name, SkipMalformed, err)
			continue
		}

		nextID++

		if replaced {
			l.logger.WarnContext(ctx, "slug collision, replacing earlier post",
				slog.String("slug", post.Slug),
				slog.String("file", name),
			)
			report.Overwritten = append(report.Overwritten, post.Slug)

			continue
		}

		report.Loaded = append(report.Loaded, post.Slug)
	}

	report.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("content.files", len(names)),
		attribute.Int("content.loaded", len(report.Loaded)),
		attribute.Int("content.skipped", len(report.Skipped)),
	)

	l.observePosts(ctx)

	l.logger.InfoContext(ctx, "content loaded",
		slog.String("dir", l.dir),
		slog.Int("loaded", len(report.Loaded)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("overwritten", len(report.Overwritten)),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// discover lists post files in lexical order, so later files win slug
// collisions deterministically.
func (l *ContentLoader) discover() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !content.IsPostFile(e.Name()) {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}

func (l *ContentLoader) parse(ctx context.Context, name string) (parsedFile, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return parsedFile{}, fmt.Errorf("reading %s: %w", name, err)
	}

	out, err := l.processor.Process(ctx, name, data)
	if err != nil {
		return parsedFile{}, err
	}

	return parsedFile{name: name, out: out}, nil
}

func (l *ContentLoader) skip(ctx context.Context, report *LoadReport, name, reason string, err error) {
	entry := SkippedFile{File: name, Reason: reason}
	attrs := []any{slog.String("file", name), slog.String("reason", reason)}

	if err != nil {
		entry.Detail = err.Error()
		attrs = append(attrs, slog.Any("error", err))
	}

	report.Skipped = append(report.Skipped, entry)

	if reason == SkipDraft {
		l.logger.DebugContext(ctx, "skipping draft post", attrs...)
	} else {
		l.logger.WarnContext(ctx, "skipping post file", attrs...)
	}

	if l.observer != nil {
		l.observer.PostSkipped(reason)
	}
}

func (l *ContentLoader) observePosts(ctx context.Context) {
	if l.observer != nil {
		l.observer.PostsLoaded(l.repo.Count(ctx))
	}
}

func reasonFor(err error) string {
	if domain.IsMalformed(err) {
		return SkipMalformed
	}

	return SkipUnreadable
}
