package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// FromPath reads a local file into an upload descriptor. The kind comes from
// the file extension and the base name is recorded as provenance.
func FromPath(path string) (domain.SourceDescriptor, error) {
	name := filepath.Base(path)
	if _, err := domain.KindFromFilename(name); err != nil {
		return domain.SourceDescriptor{}, fmt.Errorf("%s: %w", name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceDescriptor{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.FileSource(name, data)
}

// Collect builds descriptors for every URL, file path and text in that order.
// Empty strings are ignored. Reading stops at the first unreadable file.
func Collect(urls, paths, texts []string) ([]domain.SourceDescriptor, error) {
	sources := make([]domain.SourceDescriptor, 0, len(urls)+len(paths)+len(texts))
	for _, u := range urls {
		if u != "" {
			sources = append(sources, domain.URLSource(u))
		}
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		src, err := FromPath(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	for _, t := range texts {
		if t != "" {
			sources = append(sources, domain.TextSource(t))
		}
	}
	return sources, nil
}
