package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
	"github.com/custodia-labs/kbase/internal/watcher"
)

var (
	chatSources sourceFlags
	chatWatch   bool
	chatPlain   bool
)

// isTerminal reports whether stdout is an interactive terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a knowledge base",
	Long: `Build a knowledge base from the given sources and ask questions about it
interactively. Questions and answers are saved to the history.

On a terminal this opens a full-screen chat:
  Enter    - Ask the question
  Ctrl+O   - Show the sources behind the last answer
  Ctrl+R   - Clear the history
  F1       - Help
  Ctrl+C   - Quit

Otherwise questions are read one per line from standard input.

With --watch, the knowledge base is rebuilt whenever one of the --file
sources changes. Answers keep using the previous knowledge base until the
rebuild succeeds.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatSources.register(chatCmd)
	chatCmd.Flags().BoolVarP(&chatWatch, "watch", "w", false, "rebuild when --file sources change")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "read questions line by line even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatWatch && len(chatSources.files) == 0 {
		return errors.New("--watch needs at least one --file")
	}

	session, release, err := openSession()
	if err != nil {
		return err
	}
	defer release()

	history, closeHistory, err := historyFactory()
	if err != nil {
		return err
	}
	defer closeHistory()

	if len(chatSources.urls)+len(chatSources.files)+len(chatSources.texts) > 0 {
		result, err := ingestFlags(cmd, session, &chatSources)
		if result != nil {
			printFailures(cmd, result.Failures)
		}
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if isTerminal() && !chatPlain {
		return runChatTUI(ctx, session, history)
	}

	if chatWatch {
		if err := startWatcher(ctx, session, func(stats domain.IngestStats, err error) {
			if err == nil {
				logger.Info("Knowledge base rebuilt: %d chunk(s) from %d document(s)", stats.Chunks, stats.Documents)
			}
		}); err != nil {
			return err
		}
	}
	return runLineChat(ctx, cmd, session, history)
}

func runChatTUI(ctx context.Context, session driving.Session, history driving.HistoryService) error {
	app, err := tui.NewApp(&tui.Ports{Session: session, History: history})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := app.Program()
	if chatWatch {
		if err := startWatcher(ctx, session, func(stats domain.IngestStats, err error) {
			p.Send(messages.Reingested{Stats: stats, Err: err})
		}); err != nil {
			return err
		}
	}

	// Log lines would corrupt the full-screen view.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startWatcher rebuilds the session from the chat sources whenever a watched
// file changes, reporting each outcome to done. It stops with ctx.
func startWatcher(ctx context.Context, session driving.Session, done func(domain.IngestStats, error)) error {
	var stats domain.IngestStats
	rebuild := func(ctx context.Context) error {
		sources, err := chatSources.descriptors()
		if err != nil {
			return err
		}
		result, err := session.Ingest(ctx, sources)
		if err != nil {
			return err
		}
		stats = result.Stats
		return nil
	}

	w, err := watcher.New(chatSources.files, rebuild, watcher.WithNotify(func(err error) {
		done(stats, err)
	}))
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}

	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("file watcher stopped: %v", err)
		}
	}()
	return nil
}

func runLineChat(ctx context.Context, cmd *cobra.Command, session driving.Session, history driving.HistoryService) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !session.Ready() {
		cmd.Println("No knowledge base yet: answers need --url, --file or --text.")
	}

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			break
		}
		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		packet, err := session.Ask(ctx, question)
		if err != nil {
			if errors.Is(err, domain.ErrIndexUnavailable) {
				cmd.Println("No knowledge base yet. Restart chat with --url, --file or --text.")
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cmd.Printf("Error: %v\n", err)
			continue
		}

		outputAnswerText(cmd, packet)
		cmd.Println()

		if err := history.Record(ctx, question, packet.Answer); err != nil {
			logger.Warn("recording history: %v", err)
		}
	}
	return scanner.Err()
}
