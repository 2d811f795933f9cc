// Package cmd provides the CLI commands for Sanad.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sanadlabs/sanad/internal/config"
	"github.com/sanadlabs/sanad/internal/logging"
	"github.com/sanadlabs/sanad/pkg/version"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	offline    bool
	debug      bool
}

// NewRootCmd creates the root command for the sanad CLI.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "sanad",
		Short: "Hybrid retrieval and standard classification for compliance documents",
		Long: `Sanad ingests compliance documents into a vector store, serves
hybrid (semantic + lexical) search with reciprocal rank fusion, and
classifies documents against the DGA standard taxonomy.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := ""
			if opts.debug {
				level = "debug"
			}
			logging.Setup(logging.Config{Level: level, Format: "json"})
		},
	}

	cmd.SetVersionTemplate("sanad version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.offline, "offline", false, "Use the in-memory store and static embeddings")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newIngestCmd(&opts))
	cmd.AddCommand(newSearchCmd(&opts))
	cmd.AddCommand(newClassifyCmd(&opts))
	cmd.AddCommand(newSourcesCmd(&opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.offline {
		cfg.Embeddings.Provider = "static"
		cfg.Store.Backend = "memory"
		cfg.LLM.Enabled = false
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
