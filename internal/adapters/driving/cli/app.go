package cli

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/kbase/internal/adapters/driven/ai"
	"github.com/custodia-labs/kbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbase/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/core/services"
	"github.com/custodia-labs/kbase/internal/loaders"
	"github.com/custodia-labs/kbase/internal/logger"
	"github.com/custodia-labs/kbase/internal/postprocessors"
)

// SessionFactory builds a session from settings. The returned release func
// frees the AI clients and must be called when the command finishes.
type SessionFactory func(settings *domain.AppSettings) (driving.Session, func(), error)

// HistoryFactory opens the chat history. The release func closes the store.
type HistoryFactory func() (driving.HistoryService, func(), error)

// Replaced in tests.
var (
	sessionFactory SessionFactory = newSession
	historyFactory HistoryFactory = newHistory
)

// openSession loads the current settings and builds a session from them.
func openSession() (driving.Session, func(), error) {
	if settingsService == nil {
		return nil, nil, fmt.Errorf("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return sessionFactory(settings)
}

func newSession(settings *domain.AppSettings) (driving.Session, func(), error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	splitter, err := registry.Build(postprocessors.DefaultSplitter, postprocessors.ChunkerConfig(settings.RAG))
	if err != nil {
		return nil, nil, fmt.Errorf("build chunker: %w", err)
	}

	prompts, err := openPromptStore()
	if err != nil {
		return nil, nil, err
	}

	result, err := ai.Init(settings)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("embedder: %s (fallback=%t)", result.EmbeddingService.ModelName(), result.FellBack)

	ingest := services.NewIngestService(loaders.New(), splitter, flat.NewBuilder(result.EmbeddingService))
	answer := services.NewAnswerService(result.LLMService, prompts, settings.RAG.RetrievalK)
	return services.NewSession(ingest, answer), result.Close, nil
}

// openPromptStore returns nil in ephemeral mode so the built-in prompt is used.
func openPromptStore() (driven.PromptStore, error) {
	if ephemeral {
		return nil, nil
	}
	dir, err := homeDir()
	if err != nil {
		return nil, err
	}
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}
	return prompts, nil
}

func newHistory() (driving.HistoryService, func(), error) {
	if ephemeral {
		store := memory.NewHistoryStore()
		return services.NewHistoryService(store), func() { _ = store.Close() }, nil
	}

	dir, err := homeDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	logger.Debug("history database: %s", store.Path())

	release := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing history: %v", err)
		}
	}
	return services.NewHistoryService(store.HistoryStore()), release, nil
}
