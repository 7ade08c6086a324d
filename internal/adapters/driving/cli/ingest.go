package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ingestSources sourceFlags
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build a knowledge base and report its statistics",
	Long: `Load, chunk and embed the given sources, then print the number of
documents, the number of chunks and the average chunk length.

Sources that fail to load are listed and skipped; the rest are still indexed.
Use this to check what kbase extracts before asking questions.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestSources.register(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	session, release, err := openSession()
	if err != nil {
		return err
	}
	defer release()

	result, err := ingestFlags(cmd, session, &ingestSources)
	if result != nil {
		printFailures(cmd, result.Failures)
	}
	if err != nil {
		return err
	}

	if ingestJSON {
		data, err := json.MarshalIndent(result.Stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printStats(cmd, result.Stats)
	return nil
}
