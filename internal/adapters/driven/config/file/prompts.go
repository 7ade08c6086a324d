package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts_readme.md
var promptsReadme []byte

// builtin holds each known prompt and the placeholders an edited copy must
// keep, once each.
var builtin = map[string]struct {
	text         string
	placeholders []string
}{
	driven.PromptGroundedAnswer: {domain.GroundedPromptTemplate, []string{domain.PromptContext, domain.PromptQuestion}},
}

var errBadPlaceholders = errors.New("wrong number of placeholders")

// cached is a prompt file as last read from disk.
type cached struct {
	text    string
	modTime time.Time
	size    int64
}

// PromptStore serves prompts from <dir>/<name>.txt, writing the built-in
// version on first use. A file is re-read whenever its modification time or
// size changes, so edits apply without a restart. A missing or invalid file
// falls back to the built-in prompt.
type PromptStore struct {
	dir string

	setup    sync.Once
	setupErr error

	mu    sync.Mutex
	files map[string]cached
}

// NewPromptStore does no I/O: the directory is populated on the first Load.
// An empty dir means DefaultDir()/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve prompt directory: %w", err)
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: dir, files: make(map[string]cached)}, nil
}

// Dir returns the directory holding the prompt files.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the prompt called name as currently saved in Dir. Known prompts
// fall back to their built-in text when the file is missing, unreadable or
// lost a placeholder; unknown names without a file are an error.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := builtin[name]

	s.setup.Do(s.writeDefaults)
	if s.setupErr != nil {
		if known {
			return def.text, nil
		}
		return "", fmt.Errorf("prompt directory: %w", s.setupErr)
	}

	text, err := s.read(name)
	if err == nil && known && !hasEachOnce(text, def.placeholders) {
		logger.Warn("prompt %q must contain the placeholders %s once each, using the built-in prompt",
			name, strings.Join(def.placeholders, " and "))
		err = errBadPlaceholders
	}
	if err != nil {
		if known {
			return def.text, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return text, nil
}

func hasEachOnce(text string, placeholders []string) bool {
	for _, p := range placeholders {
		if strings.Count(text, p) != 1 {
			return false
		}
	}
	return true
}

// read returns the file contents, reusing the cached copy while the file is
// unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	entry, ok := s.files[name]
	s.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	entry = cached{
		text:    strings.TrimSpace(string(data)),
		modTime: info.ModTime(),
		size:    info.Size(),
	}

	s.mu.Lock()
	s.files[name] = entry
	s.mu.Unlock()
	return entry.text, nil
}

// writeDefaults creates the directory, the built-in prompt files and the
// README. Existing files are left alone.
func (s *PromptStore) writeDefaults() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.setupErr = err
		return
	}

	files := map[string][]byte{"README.md": promptsReadme}
	for name, def := range builtin {
		files[name+".txt"] = []byte(def.text)
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.setupErr = err
			return
		}
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func writeIfMissing(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
