// Package loaders turns source descriptors into documents.
//
// Each source is loaded independently. A failing source yields a
// *domain.SourceLoadError and no documents; the failure is logged and the
// caller carries on with the remaining sources.
package loaders

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
	"github.com/custodia-labs/kbase/internal/normalisers/csv"
	"github.com/custodia-labs/kbase/internal/normalisers/html"
	"github.com/custodia-labs/kbase/internal/normalisers/pdf"
	"github.com/custodia-labs/kbase/internal/normalisers/plaintext"
)

// Ensure Loader implements the interface.
var _ driven.SourceLoader = (*Loader)(nil)

// Loader dispatches each source to the parser for its kind.
type Loader struct {
	fetcher driven.PageFetcher
	pages   *html.Normaliser
	parsers map[domain.SourceKind]driven.FileParser
	tempDir string
}

// Option configures the loader.
type Option func(*Loader)

// WithFetcher replaces the page fetcher used for URL sources.
func WithFetcher(f driven.PageFetcher) Option {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithParser registers a parser, replacing any existing one for its kind.
func WithParser(p driven.FileParser) Option {
	return func(l *Loader) {
		l.parsers[p.Kind()] = p
	}
}

// WithTempDir sets where uploaded files are materialised. Defaults to os.TempDir.
func WithTempDir(dir string) Option {
	return func(l *Loader) {
		l.tempDir = dir
	}
}

// New creates a loader with the built-in pdf, txt and csv parsers and an
// HTTP fetcher using DefaultFetchConfig.
func New(opts ...Option) *Loader {
	l := &Loader{
		fetcher: NewHTTPFetcher(DefaultFetchConfig),
		pages:   html.New(),
		parsers: map[domain.SourceKind]driven.FileParser{},
	}
	for _, p := range []driven.FileParser{pdf.New(), plaintext.New(), csv.New()} {
		l.parsers[p.Kind()] = p
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the documents for one source. On failure it logs a warning
// and returns a *domain.SourceLoadError with no documents.
func (l *Loader) Load(ctx context.Context, src domain.SourceDescriptor) ([]domain.Document, error) {
	docs, err := l.load(ctx, src)
	if err != nil {
		loadErr := domain.NewSourceLoadError(src, err)
		logger.Warn("skipping source: %v", loadErr)
		return nil, loadErr
	}

	logger.Debug("loaded %d document(s) from %s %q", len(docs), src.Kind, src.Label())
	return docs, nil
}

func (l *Loader) load(ctx context.Context, src domain.SourceDescriptor) ([]domain.Document, error) {
	switch {
	case src.Kind == domain.SourceKindText:
		return []domain.Document{{
			ID:       uuid.New().String(),
			Content:  src.Text,
			Metadata: map[string]string{domain.MetaSource: domain.DirectInput},
		}}, nil
	case src.Kind == domain.SourceKindURL:
		return l.loadURL(ctx, src.Location)
	case src.Kind.IsFile():
		return l.loadFile(ctx, src)
	default:
		return nil, fmt.Errorf("%w: source kind %q", domain.ErrUnsupportedType, src.Kind)
	}
}

func (l *Loader) loadURL(ctx context.Context, pageURL string) ([]domain.Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an http(s) URL", domain.ErrInvalidInput)
	}

	body, err := l.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := l.pages.Normalise(ctx, pageURL, body)
	if err != nil {
		return nil, err
	}
	return []domain.Document{*doc}, nil
}

// loadFile writes the upload to a temporary file for the parser, which
// needs a path rather than a stream. The file is removed on every path.
func (l *Loader) loadFile(ctx context.Context, src domain.SourceDescriptor) ([]domain.Document, error) {
	parser, ok := l.parsers[src.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no parser for %s", domain.ErrUnsupportedType, src.Kind)
	}

	tmp, err := os.CreateTemp(l.tempDir, "kbase-upload-*."+src.Kind.String())
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(src.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return parser.Parse(ctx, path, src.Name)
}
