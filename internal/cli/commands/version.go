package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display lintpromote version information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if plain {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
				return
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lintpromote v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Promotes RuboCop rules from warning to error severity")
		},
	}
	cmd.Flags().BoolVarP(&plain, "plain", "p", false, "Print only the version number")
	return cmd
}
