package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/config"
)

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "takeoff version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
				config.AppName, config.BuildVersion, config.BuildCommit, config.BuildDate)
			return nil
		},
	}
}
