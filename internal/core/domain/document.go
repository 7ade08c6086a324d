package domain

// Well-known metadata keys.
const (
	// MetaSource identifies where a document came from (URL, filename or DirectInput).
	MetaSource = "source"

	// MetaTitle holds a page title when the loader can extract one.
	MetaTitle = "title"

	// MetaPage is the 0-based page number of a PDF document.
	MetaPage = "page"

	// MetaRow is the 0-based row number of a CSV document.
	MetaRow = "row"
)

// DirectInput is the provenance recorded for raw text sources.
const DirectInput = "Direct Input"

// Document is the uniform representation every source is normalised into.
// Documents are immutable once the loader returns them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Metadata always contains MetaSource.
	Metadata map[string]string
}

// Source returns the provenance of the document.
func (d Document) Source() string {
	return d.Metadata[MetaSource]
}

// Chunk is a bounded slice of a Document used as the atomic retrieval unit.
// It carries an unmodified copy of the parent's metadata.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Start is the rune offset of Content within the parent document.
	Start int

	// Metadata is copied from the parent document.
	Metadata map[string]string
}

// Source returns the provenance inherited from the parent document.
func (c Chunk) Source() string {
	return c.Metadata[MetaSource]
}

// CopyMetadata creates a shallow copy of metadata.
func CopyMetadata(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
