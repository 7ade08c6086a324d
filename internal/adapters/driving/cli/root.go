// Package cli provides the cobra command tree for kbase.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/adapters/driven/ai"
	"github.com/custodia-labs/kbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/core/services"
	"github.com/custodia-labs/kbase/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// skipBootstrap marks commands that run without loading settings.
const skipBootstrap = "kbase/skip-bootstrap"

var (
	verbose   bool
	configDir string
	ephemeral bool
)

// settingsService is created by the root command before any subcommand runs.
var settingsService driving.SettingsService

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Ask questions about your own documents",
	Long: `kbase builds a knowledge base from web pages, PDF, text and CSV files or
pasted text, and answers questions strictly from what it contains.

When the sources do not support an answer, kbase says so instead of guessing:
  "The answer cannot be verified from provided sources."

Settings live in ~/.kbase/config.toml (override with --config-dir or KBASE_HOME).
API keys may also come from GROQ_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY,
including a .env file in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default $KBASE_HOME or ~/.kbase)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep settings and history in memory only")
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipBootstrap] != "" {
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	if settingsService != nil {
		return nil
	}

	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

func openConfigStore() (driven.ConfigStore, error) {
	if ephemeral {
		return memory.NewConfigStore(), nil
	}
	return file.NewConfigStore(configDir)
}

// homeDir returns the directory holding config, prompts and data.
func homeDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return dir, nil
}
