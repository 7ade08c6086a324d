// Package plaintext parses .txt files into a single document.
package plaintext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// ErrInvalidEncoding indicates the file is not UTF-8 text.
var ErrInvalidEncoding = errors.New("text file is not valid UTF-8")

// Ensure Normaliser implements the interface.
var _ driven.FileParser = (*Normaliser)(nil)

// Normaliser handles plain text files.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the file kind this normaliser handles.
func (n *Normaliser) Kind() domain.SourceKind {
	return domain.SourceKindTXT
}

// Parse reads the whole file as one document with provenance name.
// Content must be valid UTF-8; a leading byte order mark is dropped.
func (n *Normaliser) Parse(ctx context.Context, path, name string) ([]domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	content := strings.TrimPrefix(string(data), "\ufeff")

	return []domain.Document{{
		ID:       uuid.New().String(),
		Content:  content,
		Metadata: map[string]string{domain.MetaSource: name},
	}}, nil
}
