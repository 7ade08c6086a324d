// Package chunker provides the overlapping text splitter used at ingestion.
//
// Lengths are measured in runes. Consecutive chunks of a document share
// exactly the configured overlap, and every chunk is at most the configured
// size. Within those bounds a cut prefers a paragraph break, then a line
// break, then a space.
package chunker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// separators in order of preference. A cut lands just after the separator.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(" "),
}

// Processor splits document content into overlapping chunks.
// It implements the driven.Splitter interface.
type Processor struct {
	chunkSize  int
	overlap    int
	overlapSet bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
			p.overlapSet = true
		}
	}
}

// New creates a chunker. An overlap set with WithOverlap must be smaller than
// the chunk size and is never adjusted; a larger one is domain.ErrInvalidInput.
// Without WithOverlap, a chunk size at or below the default overlap gets a
// fifth of its size as overlap.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		if p.overlapSet {
			return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
				domain.ErrInvalidInput, p.overlap, p.chunkSize)
		}
		p.overlap = p.chunkSize / 5
	}
	return p, nil
}

// Default returns a chunker with the default size and overlap.
func Default() *Processor {
	return &Processor{chunkSize: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split splits the document content into chunks.
// A document no longer than the chunk size yields one chunk with identical
// content. Every chunk carries a copy of the document metadata.
func (p *Processor) Split(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil || doc.Content == "" {
		return nil, nil
	}

	text := []rune(doc.Content)
	spans := p.spans(text)
	chunks := make([]domain.Chunk, 0, len(spans))

	for i, sp := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(text[sp.start:sp.end]),
			Position:   i,
			Start:      sp.start,
			Metadata:   copyOrEmpty(doc.Metadata),
		})
	}

	return chunks, nil
}

type span struct {
	start, end int
}

// spans computes chunk boundaries. Each next chunk starts exactly overlap
// runes before the previous end, so the union of spans covers the text.
func (p *Processor) spans(text []rune) []span {
	n := len(text)
	if n <= p.chunkSize {
		return []span{{0, n}}
	}

	var out []span
	start := 0
	for {
		limit := start + p.chunkSize
		if limit >= n {
			out = append(out, span{start, n})
			return out
		}

		end := p.cut(text, start, limit)
		out = append(out, span{start, end})
		start = end - p.overlap
	}
}

// cut picks the end of the chunk starting at start. The end must stay past
// start+overlap so the next chunk makes progress, and is only moved back
// into the second half of the window to keep chunks reasonably full.
func (p *Processor) cut(text []rune, start, limit int) int {
	floor := start + p.overlap
	if half := start + p.chunkSize/2; half > floor {
		floor = half
	}

	for _, sep := range separators {
		for end := limit; end > floor; end-- {
			if endsWith(text[:end], sep) {
				return end
			}
		}
	}

	return limit
}

func endsWith(text, suffix []rune) bool {
	if len(text) < len(suffix) {
		return false
	}
	off := len(text) - len(suffix)
	for i, r := range suffix {
		if text[off+i] != r {
			return false
		}
	}
	return true
}

func copyOrEmpty(meta map[string]string) map[string]string {
	if meta == nil {
		return make(map[string]string)
	}
	return domain.CopyMetadata(meta)
}
