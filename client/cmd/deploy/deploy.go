package deploy

import (
	"context"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/client/cmd/internal/connection"
	"github.com/srmds/takeoff/client/cmd/internal/logger"
	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/compiler"
)

const deployTimeout = time.Minute * 30

type deployCommand struct {
	logger  log.Logger
	flags   internal.ProjectFlags
	project *internal.Project
}

// NewDeployCommand initializes command for deployment
func NewDeployCommand() *cobra.Command {
	deploy := &deployCommand{
		logger: logger.NewDefaultLogger(),
	}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the steps of the deployment definition",
		Long: heredoc.Doc(`Run every step of .takeoff/deployment.yml in order for the current build.
				The application name, branch and tag are read from the CI environment
				variables named in .takeoff/config.yml.`),
		Example: heredoc.Doc(`
			$ takeoff deploy
			$ takeoff deploy --environment prd
			$ takeoff deploy -c ci/config.yml -d ci/deployment.yml`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE:    deploy.RunE,
		PreRunE: deploy.PreRunE,
	}
	deploy.flags.Inject(cmd.Flags())
	return cmd
}

func (d *deployCommand) PreRunE(_ *cobra.Command, _ []string) error {
	project, err := internal.LoadProject(d.flags)
	if err != nil {
		return err
	}
	d.project = project
	d.logger = logger.NewClientLogger(project.Config.Log)
	return config.ValidateDeployment(project.Config, project.Deployment)
}

func (d *deployCommand) RunE(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), deployTimeout)
	defer cancel()

	app := d.project.App
	d.logger.Info("Deploying %s version %s to %s", app.ApplicationName, app.Version.Version, app.Version.Environment)

	services := connection.New(d.project.Config, app, d.logger)
	defer services.Close()

	publisher := connection.NewPublisher(d.project.Config.Events, d.logger)
	defer publisher.Close()

	builder := job.NewBuilder(config.FS, compiler.NewEngine())
	runner := deployment.NewRunner(d.project.Config, d.project.Deployment, app, builder, services, publisher, d.logger)
	return runner.Run(ctx)
}
