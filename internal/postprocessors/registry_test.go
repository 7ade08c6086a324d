package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/postprocessors/chunker"
)

// registryMockSplitter is a simple mock for testing registry functionality.
type registryMockSplitter struct {
	name string
}

func (m *registryMockSplitter) Name() string { return m.name }
func (m *registryMockSplitter) Split(_ context.Context, _ *domain.Document) ([]domain.Chunk, error) {
	return nil, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	builder := func(_ map[string]any) (driven.Splitter, error) {
		return &registryMockSplitter{name: "test"}, nil
	}

	r.Register("test", builder)

	if !r.Has("test") {
		t.Error("expected 'test' to be registered")
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	builder := func(cfg map[string]any) (driven.Splitter, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockSplitter{name: name}, nil
	}

	r.Register("test", builder)

	proc, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if proc.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", proc.Name())
	}
}

func TestRegistry_Build_UnknownSplitter(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	if err == nil {
		t.Error("expected error for unknown splitter")
	}
}

func TestRegistry_Has(t *testing.T) {
	r := NewRegistry()

	if r.Has("nonexistent") {
		t.Error("expected Has to return false for nonexistent splitter")
	}

	r.Register("exists", func(_ map[string]any) (driven.Splitter, error) {
		return &registryMockSplitter{name: "exists"}, nil
	})

	if !r.Has("exists") {
		t.Error("expected Has to return true for registered splitter")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()

	names := r.Names()
	if len(names) != 0 {
		t.Errorf("expected 0 names, got %d", len(names))
	}

	r.Register("alpha", func(_ map[string]any) (driven.Splitter, error) {
		return &registryMockSplitter{name: "alpha"}, nil
	})
	r.Register("beta", func(_ map[string]any) (driven.Splitter, error) {
		return &registryMockSplitter{name: "beta"}, nil
	})

	names = r.Names()
	if len(names) != 2 {
		t.Errorf("expected 2 names, got %d", len(names))
	}

	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected sorted names [alpha beta], got %v", names)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if !r.Has("chunker") {
		t.Error("expected 'chunker' to be registered after RegisterDefaults")
	}
}

func TestBuildChunker_WithConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	cfg := map[string]any{
		"chunk_size": 500,
		"overlap":    100,
	}

	s, err := r.Build("chunker", cfg)
	if err != nil {
		t.Fatalf("Build chunker failed: %v", err)
	}

	c, ok := s.(*chunker.Processor)
	if !ok {
		t.Fatalf("expected *chunker.Processor, got %T", s)
	}
	if c.ChunkSize() != 500 || c.Overlap() != 100 {
		t.Errorf("expected 500/100, got %d/%d", c.ChunkSize(), c.Overlap())
	}
}

func TestBuildChunker_WithNilConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	s, err := r.Build("chunker", nil)
	if err != nil {
		t.Fatalf("Build chunker with nil config failed: %v", err)
	}

	c := s.(*chunker.Processor)
	if c.ChunkSize() != 1000 || c.Overlap() != 200 {
		t.Errorf("expected defaults 1000/200, got %d/%d", c.ChunkSize(), c.Overlap())
	}
}

func TestBuildChunker_MissingOverlapKeepsDefault(t *testing.T) {
	s, err := buildChunker(map[string]any{"chunk_size": int64(800)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := s.(*chunker.Processor)
	if c.ChunkSize() != 800 {
		t.Errorf("expected chunk size 800, got %d", c.ChunkSize())
	}
	if c.Overlap() != 200 {
		t.Errorf("expected default overlap 200, got %d", c.Overlap())
	}
}

func TestBuildChunker_RejectsOverlapNotBelowSize(t *testing.T) {
	s, err := buildChunker(map[string]any{"chunk_size": 100, "overlap": 100})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if s != nil {
		t.Errorf("expected nil splitter, got %T", s)
	}
}

func TestChunkerConfig(t *testing.T) {
	cfg := ChunkerConfig(domain.RAGSettings{ChunkSize: 300, ChunkOverlap: 30, RetrievalK: 3})

	s, err := buildChunker(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := s.(*chunker.Processor)
	if c.ChunkSize() != 300 || c.Overlap() != 30 {
		t.Errorf("expected 300/30, got %d/%d", c.ChunkSize(), c.Overlap())
	}
}

func TestGetIntFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      map[string]any
		key      string
		expected int
		found    bool
	}{
		{"int value", map[string]any{"size": 100}, "size", 100, true},
		{"int64 value", map[string]any{"size": int64(200)}, "size", 200, true},
		{"float64 value", map[string]any{"size": float64(300)}, "size", 300, true},
		{"string value", map[string]any{"size": "400"}, "size", 0, false},
		{"missing key", map[string]any{"other": 100}, "size", 0, false},
		{"nil config", nil, "size", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, found := getIntFromConfig(tt.cfg, tt.key)
			if result != tt.expected || found != tt.found {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.expected, tt.found, result, found)
			}
		})
	}
}
