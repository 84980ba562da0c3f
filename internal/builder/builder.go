// Package builder turns a directory of Markdown posts into HTML pages and a
// JSON posts index.
package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/checksum"
	"github.com/starford/quire/internal/compose"
	"github.com/starford/quire/internal/metadata"
	"github.com/starford/quire/internal/metrics"
	"github.com/starford/quire/internal/models"
	"github.com/starford/quire/internal/parser"
	"github.com/starford/quire/internal/render"
	"github.com/starford/quire/internal/storage"
)

// Site locates the inputs and outputs of a build.
type Site struct {
	PostsDir     string
	OutputDir    string
	TemplateFile string
	IndexFile    string
	// URLPrefix is prepended to "<slug>.html" to form each post URL.
	URLPrefix string
}

// Document is one source post.
type Document struct {
	Source  string
	Content []byte
}

// Page is a compiled document ready to be written.
type Page struct {
	Post models.Post
	HTML []byte
}

// Skipped records a document left out of the build.
type Skipped struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Report summarises one build.
type Report struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Posts     []models.Post `json:"posts"`
	Skipped   []Skipped     `json:"skipped"`
}

// Index returns the index records of the report's posts, in index order.
func (r *Report) Index() []models.PostMetadata {
	out := make([]models.PostMetadata, len(r.Posts))
	for i, p := range r.Posts {
		out[i] = p.PostMetadata
	}
	return out
}

// Builder runs builds for one site. A Builder is not safe for concurrent
// Build calls; callers serialise them.
type Builder struct {
	site     Site
	renderer render.Renderer
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
	mode     compose.Mode
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for per-document messages.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithClock sets the source of the current date used for undated posts.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithSubstitution sets the template substitution mode.
func WithSubstitution(m compose.Mode) Option {
	return func(b *Builder) { b.mode = m }
}

// New creates a Builder for site.
func New(site Site, r render.Renderer, opts ...Option) *Builder {
	b := &Builder{
		site:     site,
		renderer: r,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		mode:     compose.Simultaneous,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Site returns the site the builder was created for.
func (b *Builder) Site() Site {
	return b.site
}

// Build compiles every post and writes the pages and the index. Only a
// missing posts directory or template file fails the build; a bad document
// is logged and skipped. Pages written before a failure are kept.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report, err := b.build(ctx, start)
	elapsed := time.Since(start)
	b.recorder.ObserveBuildDuration(elapsed)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	report.Duration = elapsed
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	b.recorder.SetIndexedPosts(len(report.Posts))
	return report, nil
}

func (b *Builder) build(ctx context.Context, start time.Time) (*Report, error) {
	if info, err := os.Stat(b.site.PostsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("builder: %s: %w", b.site.PostsDir, apperr.ErrSourceMissing)
	}
	tpl, err := os.ReadFile(b.site.TemplateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("builder: %s: %w", b.site.TemplateFile, apperr.ErrTemplateMissing)
		}
		return nil, fmt.Errorf("builder: read template: %w", err)
	}

	src, err := storage.NewFS(b.site.PostsDir)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	docs, err := src.List("")
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	if len(docs) == 0 {
		b.logger.Warn("no markdown posts found", slog.String("posts_dir", b.site.PostsDir))
	}

	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: start,
		Posts:     []models.Post{},
		Skipped:   []Skipped{},
	}
	b.logger.Info("building posts", slog.String("build_id", report.ID), slog.Int("documents", len(docs)))

	var out *storage.FS
	slugs := make(map[string]string, len(docs))

	for _, meta := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		skip := func(reason string, result metrics.DocumentResult) {
			report.Skipped = append(report.Skipped, Skipped{Source: meta.Path, Reason: reason})
			b.recorder.IncDocumentResult(result)
		}

		data, err := src.Read(meta.Path)
		if err != nil {
			b.logger.Warn("read failed, skipping", slog.String("source", meta.Path), slog.String("error", err.Error()))
			skip(err.Error(), metrics.DocumentFailed)
			continue
		}

		page, err := b.Compile(Document{Source: meta.Path, Content: data}, string(tpl))
		if err != nil {
			if errors.Is(err, apperr.ErrMissingTitle) {
				b.logger.Warn("missing 'title' in frontmatter, skipping", slog.String("source", meta.Path))
				skip(apperr.ErrMissingTitle.Error(), metrics.DocumentSkipped)
			} else {
				b.logger.Warn("render failed, skipping", slog.String("source", meta.Path), slog.String("error", err.Error()))
				skip(err.Error(), metrics.DocumentFailed)
			}
			continue
		}

		if out == nil {
			if out, err = storage.EnsureFS(b.site.OutputDir); err != nil {
				return nil, fmt.Errorf("builder: %w", err)
			}
		}
		name := page.Post.Slug + ".html"
		if prev, ok := slugs[page.Post.Slug]; ok {
			b.logger.Warn("slug already generated, overwriting",
				slog.String("slug", page.Post.Slug), slog.String("source", meta.Path), slog.String("previous", prev))
		}
		if err := out.Write(name, page.HTML); err != nil {
			b.logger.Warn("write failed, skipping", slog.String("source", meta.Path), slog.String("error", err.Error()))
			skip(err.Error(), metrics.DocumentFailed)
			continue
		}
		slugs[page.Post.Slug] = meta.Path

		b.logger.Info("generated", slog.String("source", meta.Path), slog.String("output", filepath.Join(b.site.OutputDir, name)))
		b.recorder.IncDocumentResult(metrics.DocumentGenerated)
		report.Posts = append(report.Posts, page.Post)
	}

	SortPosts(report.Posts)

	if err := WriteIndex(b.site.IndexFile, report.Index()); err != nil {
		return nil, err
	}
	b.logger.Info("index updated",
		slog.String("index_file", b.site.IndexFile),
		slog.Int("posts", len(report.Posts)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Compile runs one document through parse, normalize, render and compose.
// It touches no files. A document without a title yields
// apperr.ErrMissingTitle.
func (b *Builder) Compile(doc Document, tpl string) (*Page, error) {
	fm, body := parser.Parse(string(doc.Content))

	post, err := metadata.Normalize(fm, b.now())
	if err != nil {
		return nil, err
	}

	fragment, err := b.renderer.Render([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("builder: %s: %w", doc.Source, err)
	}

	post.URL = b.site.URLPrefix + post.Slug + ".html"
	post.Source = doc.Source
	post.Checksum = checksum.Sum(doc.Content)
	post.Content = string(fragment)
	if text, err := render.PlainText(fragment); err == nil {
		post.Text = text
	}
	post.ReadTime = render.ReadTime(post.Text)

	html := compose.Compose(tpl, compose.Fields{
		Title:       post.Title,
		Date:        post.DateFormatted,
		Description: post.Description,
		Category:    post.Category,
		Tags:        post.Tags,
		Content:     post.Content,
	}, b.mode)

	return &Page{Post: post, HTML: []byte(html)}, nil
}

// SortPosts orders posts newest first by their YYYY-MM-DD date string.
// Posts with equal dates keep their relative order.
func SortPosts(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

// WriteIndex writes records to path as an indented JSON array.
func WriteIndex(path string, records []models.PostMetadata) error {
	if records == nil {
		records = []models.PostMetadata{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("builder: encode index: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("builder: resolve index path: %w", err)
	}
	if err := storage.WriteFileAtomic(abs, buf.Bytes()); err != nil {
		return fmt.Errorf("builder: write index: %w", err)
	}
	return nil
}
