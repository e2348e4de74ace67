package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/contacts/internal/app"
	"github.com/giantswarm/contacts/internal/view"
)

var (
	listLayout       string
	listOutputFormat string
)

// listCmd renders the contacts once and exits.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the contacts once",
	Long: `Loads the mailbox list, resolves every address and prints the contacts.

Examples:
  contacts list
  contacts list --layout grid
  contacts list -o json`,
	Args: cobra.NoArgs,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := view.ParseOutputFormat(listOutputFormat)
	if err != nil {
		return err
	}

	application, err := app.NewApplication(newAppConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	session, err := application.Session(commandContext(cmd))
	if err != nil {
		return err
	}

	if listLayout != "" {
		layout, err := view.ParseLayout(listLayout)
		if err != nil {
			return err
		}
		session.Model().SetLayout(layout)
	}

	out := cmd.OutOrStdout()
	if format != view.FormatTable {
		return view.Encode(out, format, view.SnapshotOf(session.Model()))
	}
	application.Services().Renderer.Render(out, session.Model())
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listLayout, "layout", "", "Layout (list, grid); defaults to view.layout from the configuration")
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	_ = listCmd.RegisterFlagCompletionFunc("layout", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(view.LayoutList), string(view.LayoutGrid)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = listCmd.RegisterFlagCompletionFunc("output", outputFormatCompletion)
}

// outputFormatCompletion completes the values of --output.
func outputFormatCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{string(view.FormatTable), string(view.FormatJSON), string(view.FormatYAML)}, cobra.ShellCompDirectiveNoFileComp
}
