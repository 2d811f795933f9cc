package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sanadlabs/sanad/internal/classify"
)

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Classify documents against the standard taxonomy",
		Long: `Classify assigns each document to a DGA standard through a cascade:
a filename hint, embedding similarity against the catalog, and a
language model fallback for low-confidence documents.

Examples:
  sanad classify 5.8.1_risk_register.txt
  sanad classify report.txt --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			type classified struct {
				File string `json:"file"`
				classify.Result
			}
			results := make([]classified, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				name := filepath.Base(path)
				results = append(results, classified{
					File:   name,
					Result: app.classifier.Classify(cmd.Context(), string(data), name),
				})
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			bold := color.New(color.Bold).SprintFunc()
			for _, r := range results {
				id := r.StandardID
				if id == "" {
					id = "unclassified"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s → %s (%s, tier %d)\n   %s\n",
					bold(r.File), confidenceColor(r.Confidence)(id), r.Confidence, r.Tier, r.Reasoning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func confidenceColor(c classify.Confidence) func(...interface{}) string {
	switch c {
	case classify.ConfidenceHigh:
		return color.New(color.FgGreen).SprintFunc()
	case classify.ConfidenceMedium:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}
