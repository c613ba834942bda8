package cosmos

import (
	"github.com/spf13/cobra"
)

// NewCosmosCommand initializes command for cosmos
func NewCosmosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosmos",
		Short: "Look up the cosmos account of the environment",
	}
	cmd.AddCommand(NewCredentialsCommand())
	return cmd
}
