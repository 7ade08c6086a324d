package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage chat history",
	Long:  `List or clear the questions and answers recorded by chat sessions.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded questions and answers",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the chat history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryReset,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyResetCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	history, release, err := historyFactory()
	if err != nil {
		return err
	}
	defer release()

	exchanges, err := history.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(exchanges) == 0 {
		cmd.Println("No history yet.")
		return nil
	}

	for i, ex := range exchanges {
		if i > 0 {
			cmd.Println()
		}
		cmd.Printf("[%d] %s\n", i+1, ex.CreatedAt.Local().Format("2006-01-02 15:04"))
		cmd.Printf("Q: %s\n", ex.Query)
		cmd.Printf("A: %s\n", ex.Answer)
	}
	return nil
}

func runHistoryReset(cmd *cobra.Command, _ []string) error {
	history, release, err := historyFactory()
	if err != nil {
		return err
	}
	defer release()

	if err := history.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}
