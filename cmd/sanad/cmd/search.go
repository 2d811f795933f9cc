package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	window int
	scope  string
	format string
	exact  string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long: `Search runs the semantic and lexical legs concurrently and merges
their rankings with reciprocal rank fusion. If one leg fails, results
come from the other alone.

With --scope, a semantic-only query runs against the session
collection restricted to that scope key.

Examples:
  sanad search "خطة استمرارية الأعمال"
  sanad search "penetration test" --limit 3 --expand 1
  sanad search "budget" --scope meeting42
  sanad search "risk register" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			if opts.scope != "" {
				return runScopedSearch(cmd, app, query, opts)
			}
			return runHybridSearch(cmd, app, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().IntVar(&opts.window, "expand", 0, "Include this many neighbor chunks around each result")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Search the session collection under this scope key")
	cmd.Flags().StringVar(&opts.exact, "exact", "", "Literal phrase for the lexical leg (defaults to the query)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func runHybridSearch(cmd *cobra.Command, app *app, query string, opts searchOptions) error {
	limit := opts.limit
	if limit <= 0 {
		limit = app.cfg.Search.TopK
	}

	lexical := opts.exact
	if lexical == "" {
		lexical = query
	}
	result, err := app.engine.SearchHybrid(cmd.Context(), query, lexical, limit)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		type jsonResult struct {
			ID         string  `json:"id"`
			Source     string  `json:"source"`
			ChunkIndex int     `json:"chunk_index"`
			Score      float64 `json:"score"`
			Text       string  `json:"text"`
			Context    string  `json:"context,omitempty"`
		}
		out := make([]jsonResult, 0, len(result.Results))
		for _, r := range result.Results {
			jr := jsonResult{
				ID:         r.Chunk.ID,
				Source:     r.Chunk.Source,
				ChunkIndex: r.Chunk.ChunkIndex,
				Score:      r.Score,
				Text:       r.Chunk.Text,
			}
			if opts.window > 0 {
				jr.Context = expandedText(cmd, app, r.Chunk.Source, r.Chunk.ChunkIndex, opts.window)
			}
			out = append(out, jr)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if result.SemanticFailed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s semantic search unavailable, showing lexical matches only\n", yellow("!"))
	}
	if result.LexicalFailed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s lexical search unavailable, showing semantic matches only\n", yellow("!"))
	}
	if len(result.Results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}

	for i, r := range result.Results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (chunk %d, score %.4f)\n",
			bold(fmt.Sprintf("%d.", i+1)), cyan(r.Chunk.Source), r.Chunk.ChunkIndex, r.Score)
		text := r.Chunk.Text
		if opts.window > 0 {
			if expanded := expandedText(cmd, app, r.Chunk.Source, r.Chunk.ChunkIndex, opts.window); expanded != "" {
				text = expanded
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "   %s\n\n", strings.ReplaceAll(text, "\n", "\n   "))
	}
	return nil
}

func runScopedSearch(cmd *cobra.Command, app *app, query string, opts searchOptions) error {
	limit := opts.limit
	if limit <= 0 {
		limit = app.cfg.Search.TopK
	}

	results, err := app.engine.SearchScoped(cmd.Context(), query, opts.scope, limit)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	for i, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (distance %.4f)\n   %s\n\n",
			i+1, cyan(r.Chunk.Source), r.Distance, r.Chunk.Text)
	}
	return nil
}

// expandedText joins a result's neighbor window into one passage.
func expandedText(cmd *cobra.Command, app *app, source string, index, window int) string {
	chunks := app.engine.Expand(cmd.Context(), source, index, window)
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}
