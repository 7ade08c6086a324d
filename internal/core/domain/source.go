package domain

import (
	"path/filepath"
	"strings"
)

// SourceKind identifies how a source must be loaded.
// It is resolved once at the loader boundary.
type SourceKind string

// Supported source kinds.
const (
	SourceKindURL  SourceKind = "url"
	SourceKindText SourceKind = "text"
	SourceKindPDF  SourceKind = "pdf"
	SourceKindTXT  SourceKind = "txt"
	SourceKindCSV  SourceKind = "csv"
)

// IsValid returns true if the kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindURL, SourceKindText, SourceKindPDF, SourceKindTXT, SourceKindCSV:
		return true
	default:
		return false
	}
}

// IsFile returns true for kinds that arrive as an uploaded byte stream.
func (k SourceKind) IsFile() bool {
	return k == SourceKindPDF || k == SourceKindTXT || k == SourceKindCSV
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// KindFromFilename resolves a file kind from its extension.
// Returns ErrUnsupportedType for anything other than pdf, txt or csv.
func KindFromFilename(name string) (SourceKind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	kind := SourceKind(ext)
	if !kind.IsFile() {
		return "", ErrUnsupportedType
	}
	return kind, nil
}

// SourceDescriptor is a tagged union over the supported source kinds.
// Only the fields relevant to Kind are read:
//
//   - SourceKindURL: Location
//   - SourceKindText: Text
//   - SourceKindPDF, SourceKindTXT, SourceKindCSV: Name and Data
type SourceDescriptor struct {
	Kind SourceKind

	// Location is the page URL.
	Location string

	// Text is wrapped verbatim as a single document.
	Text string

	// Name is the uploaded filename, recorded as provenance.
	Name string

	// Data is the uploaded byte stream.
	Data []byte
}

// URLSource describes a web page.
func URLSource(url string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceKindURL, Location: url}
}

// TextSource describes raw text typed by the user.
func TextSource(text string) SourceDescriptor {
	return SourceDescriptor{Kind: SourceKindText, Text: text}
}

// FileSource describes an uploaded file whose kind comes from its extension.
func FileSource(name string, data []byte) (SourceDescriptor, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return SourceDescriptor{}, err
	}
	return SourceDescriptor{Kind: kind, Name: name, Data: data}, nil
}

// Label returns a short human-readable identifier for logs and errors.
func (s SourceDescriptor) Label() string {
	switch s.Kind {
	case SourceKindURL:
		return s.Location
	case SourceKindText:
		return DirectInput
	default:
		return s.Name
	}
}
