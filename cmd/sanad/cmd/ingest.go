package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newIngestCmd(root *rootOptions) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Chunk documents and write them to the knowledge base",
		Long: `Ingest reads text documents, splits them into overlapping chunks at
semantic boundaries, and upserts them into the global collection.
Re-ingesting a file overwrites its previous chunks.

With --scope, content goes to the session collection under the given
scope key instead.

Examples:
  sanad ingest policy.txt
  sanad ingest --scope meeting42 notes.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				source := filepath.Base(path)

				var stats struct {
					Chunks, Written, Skipped int
				}
				if scope != "" {
					s, err := app.ingester.IngestScoped(cmd.Context(), scope, source, string(data))
					if err != nil {
						return err
					}
					stats.Chunks, stats.Written, stats.Skipped = s.Chunks, s.Written, s.Skipped
				} else {
					s, err := app.ingester.IngestDocument(cmd.Context(), source, string(data))
					if err != nil {
						return err
					}
					stats.Chunks, stats.Written, stats.Skipped = s.Chunks, s.Written, s.Skipped
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d chunks written\n",
					green("✓"), source, stats.Written)
				if stats.Skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %d chunks skipped after write failures\n",
						yellow("!"), stats.Skipped)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Ingest into the session collection under this scope key")
	return cmd
}
