package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/loaders"
)

// sourceFlags holds the --url, --file and --text flags of one command.
type sourceFlags struct {
	urls  []string
	files []string
	texts []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.urls, "url", "u", nil, "web page to ingest (repeatable)")
	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "PDF, TXT or CSV file to ingest (repeatable)")
	cmd.Flags().StringArrayVarP(&f.texts, "text", "t", nil, "raw text to ingest (repeatable)")
}

// descriptors reads the files and returns one descriptor per source.
func (f *sourceFlags) descriptors() ([]domain.SourceDescriptor, error) {
	sources, err := loaders.Collect(f.urls, f.files, f.texts)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}
	return sources, nil
}

func (f *sourceFlags) reset() {
	f.urls, f.files, f.texts = nil, nil, nil
}

// ingestFlags builds the knowledge base of session from the command's sources.
func ingestFlags(cmd *cobra.Command, session driving.Session, flags *sourceFlags) (*driving.IngestResult, error) {
	sources, err := flags.descriptors()
	if err != nil {
		return nil, explainIngestError(err)
	}
	result, err := session.Ingest(cmd.Context(), sources)
	if err != nil {
		return result, explainIngestError(err)
	}
	return result, nil
}

// explainIngestError turns ingestion failures into messages for the user.
func explainIngestError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoSources):
		return fmt.Errorf("%w (--url, --file or --text)", err)
	case errors.Is(err, domain.ErrEmptyContent):
		return fmt.Errorf("%w from the given sources", err)
	default:
		return err
	}
}

func printStats(cmd *cobra.Command, stats domain.IngestStats) {
	cmd.Printf("Documents: %d\n", stats.Documents)
	cmd.Printf("Chunks: %d\n", stats.Chunks)
	cmd.Printf("Average chunk length: %.2f characters\n", stats.AvgChunkLen)
}

func printFailures(cmd *cobra.Command, failures []*domain.SourceLoadError) {
	if len(failures) == 0 {
		return
	}
	cmd.Printf("Skipped %d source(s):\n", len(failures))
	for _, f := range failures {
		cmd.Printf("  - %s %s: %v\n", f.Kind, f.Label, f.Err)
	}
}
