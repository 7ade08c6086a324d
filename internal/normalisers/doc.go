// Package normalisers holds the per-format parsers that turn loaded bytes
// into documents. File formats implement driven.FileParser and are selected
// by domain.SourceKind; the html package serves fetched web pages.
package normalisers
