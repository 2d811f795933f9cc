package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSourcesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage stored documents and scopes",
	}
	cmd.AddCommand(newSourcesCountCmd(root))
	cmd.AddCommand(newSourcesDeleteCmd(root))
	cmd.AddCommand(newSourcesDeleteScopeCmd(root))
	return cmd
}

func newSourcesCountCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many chunks each collection holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			global, err := app.global.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "global: %d chunks\n", global)

			if app.session != nil {
				session, err := app.session.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session: %d chunks\n", session)
			}
			return nil
		},
	}
}

func newSourcesDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <source>...",
		Short: "Remove every chunk of the given source documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			green := color.New(color.FgGreen).SprintFunc()
			for _, source := range args {
				removed, err := app.ingester.DeleteSource(cmd.Context(), source)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d chunks removed\n", green("✓"), source, removed)
			}
			return nil
		},
	}
}

func newSourcesDeleteScopeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-scope <scope-key>...",
		Short: "Remove every session chunk under the given scope keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer app.close()

			green := color.New(color.FgGreen).SprintFunc()
			for _, scope := range args {
				removed, err := app.ingester.DeleteScope(cmd.Context(), scope)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d chunks removed\n", green("✓"), scope, removed)
			}
			return nil
		},
	}
}
