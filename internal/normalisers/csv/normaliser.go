// Package csv parses CSV files into one document per data row.
//
// The first record is the header. Each row renders as "column: value" lines
// in header order, and records its 0-based row number under domain.MetaRow.
package csv

import (
	"context"
	encodingcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.FileParser = (*Normaliser)(nil)

// Normaliser handles CSV files.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the file kind this normaliser handles.
func (n *Normaliser) Kind() domain.SourceKind {
	return domain.SourceKindCSV
}

// Parse reads the file at path. A file with only a header yields no documents.
func (n *Normaliser) Parse(ctx context.Context, path, name string) ([]domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	r := encodingcsv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var docs []domain.Document
	for row := 0; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		docs = append(docs, domain.Document{
			ID:      uuid.New().String(),
			Content: renderRow(header, record),
			Metadata: map[string]string{
				domain.MetaSource: name,
				domain.MetaRow:    strconv.Itoa(row),
			},
		})
	}

	return docs, nil
}

// renderRow pairs each header column with its value. Missing trailing values
// render empty; values beyond the header are dropped.
func renderRow(header, record []string) string {
	lines := make([]string, len(header))
	for i, col := range header {
		var val string
		if i < len(record) {
			val = record[i]
		}
		lines[i] = strings.TrimSpace(col) + ": " + strings.TrimSpace(val)
	}
	return strings.Join(lines, "\n")
}
