// Package pdf parses PDF files into one document per page.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// ErrMalformedPDF indicates the file could not be read as a PDF.
var ErrMalformedPDF = errors.New("malformed PDF")

// Ensure Normaliser implements the interface.
var _ driven.FileParser = (*Normaliser)(nil)

// PageExtractor returns the plain text of every page in order.
// Abstracted for testing.
type PageExtractor interface {
	Pages(ctx context.Context, path string) ([]string, error)
}

// Normaliser handles PDF files.
type Normaliser struct {
	extractor PageExtractor
}

// New creates a PDF normaliser backed by the pure-Go reader.
func New() *Normaliser {
	return &Normaliser{extractor: readerExtractor{}}
}

// NewWithExtractor creates a PDF normaliser with a custom page extractor.
func NewWithExtractor(extractor PageExtractor) *Normaliser {
	return &Normaliser{extractor: extractor}
}

// Kind returns the file kind this normaliser handles.
func (n *Normaliser) Kind() domain.SourceKind {
	return domain.SourceKindPDF
}

// Parse extracts one document per page. Each document records the filename
// as provenance and its 0-based page number under domain.MetaPage.
func (n *Normaliser) Parse(ctx context.Context, path, name string) ([]domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	pages, err := n.extractor.Pages(ctx, path)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(pages))
	for i, text := range pages {
		docs = append(docs, domain.Document{
			ID:      uuid.New().String(),
			Content: text,
			Metadata: map[string]string{
				domain.MetaSource: name,
				domain.MetaPage:   strconv.Itoa(i),
			},
		})
	}
	return docs, nil
}

// readerExtractor reads pages with github.com/ledongthuc/pdf.
type readerExtractor struct{}

// Pages opens the file and collects per-page text. The reader panics on some
// corrupt inputs, so panics are converted into ErrMalformedPDF.
func (readerExtractor) Pages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrMalformedPDF, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPDF, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrMalformedPDF, i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}
