package schema

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/config"
)

// NewSchemaCommand initializes command to print the deployment file schema
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		Short:   "Print the JSON Schema of the deployment definition",
		Example: "takeoff schema > .takeoff/deployment.schema.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := json.MarshalIndent(config.DeploymentSchema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
}
