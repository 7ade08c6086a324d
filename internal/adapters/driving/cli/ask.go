package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

var (
	askSources sourceFlags
	askJSON    bool
	askYAML    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the given sources",
	Long: `Ingest the given sources and answer a single question from them.

The answer is grounded in the retrieved passages only. When they do not
support an answer, the reply is:
  "The answer cannot be verified from provided sources."

Each source is listed with its distance score: lower is closer.

Examples:
  kbase ask "What is the refund policy?" --url https://example.com/terms
  kbase ask "Who signed?" --file contract.pdf --file notes.txt
  kbase ask "Which region sold most?" --file sales.csv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askSources.register(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer packet as JSON")
	askCmd.Flags().BoolVar(&askYAML, "yaml", false, "print the answer packet as YAML")
	askCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New("question must not be empty")
	}

	session, release, err := openSession()
	if err != nil {
		return err
	}
	defer release()

	if _, err := ingestFlags(cmd, session, &askSources); err != nil {
		return err
	}

	packet, err := session.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	switch {
	case askJSON:
		return outputAnswerJSON(cmd, packet)
	case askYAML:
		return outputAnswerYAML(cmd, packet)
	default:
		outputAnswerText(cmd, packet)
		return nil
	}
}

func outputAnswerJSON(cmd *cobra.Command, packet *domain.AnswerPacket) error {
	data, err := json.MarshalIndent(packet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerYAML(cmd *cobra.Command, packet *domain.AnswerPacket) error {
	data, err := yaml.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, packet *domain.AnswerPacket) {
	cmd.Println(packet.Answer)
	if len(packet.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range packet.Sources {
		cmd.Printf("\n[%d] %s (score %.4f)\n", i+1, describeSource(src.Metadata), src.Score)
		cmd.Printf("    %s\n", strings.ReplaceAll(src.Preview(), "\n", "\n    "))
	}
}

// describeSource names where a chunk came from, e.g. "report.pdf page 2".
func describeSource(meta map[string]string) string {
	name := meta[domain.MetaSource]
	if name == "" {
		name = "(unknown)"
	}
	if title := meta[domain.MetaTitle]; title != "" {
		name = fmt.Sprintf("%s %q", name, title)
	}
	if page, ok := meta[domain.MetaPage]; ok {
		name += " page " + page
	}
	if row, ok := meta[domain.MetaRow]; ok {
		name += " row " + row
	}
	return name
}
