package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/cmdx"
	cli "github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/cosmos"
	"github.com/srmds/takeoff/client/cmd/deploy"
	"github.com/srmds/takeoff/client/cmd/job"
	"github.com/srmds/takeoff/client/cmd/schema"
	"github.com/srmds/takeoff/client/cmd/validate"
	"github.com/srmds/takeoff/client/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
// default output of logging should go to stdout
func New() *cli.Command {
	cmd := &cli.Command{
		Use: "takeoff <command> <subcommand> [flags]",
		Long: heredoc.Doc(`
			Takeoff deploys data applications to Azure Databricks from CI.

			The project is described by .takeoff/config.yml and the steps to run by
			.takeoff/deployment.yml. Application name, branch and tag are read from
			the CI environment, optionally loaded from a .env file.`),
		SilenceUsage: true,
		Example: heredoc.Doc(`
				$ takeoff validate
				$ takeoff deploy
				$ takeoff job list
				$ takeoff job render --output yaml
			`),
		Annotations: map[string]string{
			"group:core": "true",
			"help:learn": heredoc.Doc(`
				Use 'takeoff <command> <subcommand> --help' for more information about a command.
			`),
		},
	}

	cmdx.SetHelp(cmd)

	cmd.AddCommand(
		deploy.NewDeployCommand(),
		job.NewJobCommand(),
		cosmos.NewCosmosCommand(),
		validate.NewValidateCommand(),
		schema.NewSchemaCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
