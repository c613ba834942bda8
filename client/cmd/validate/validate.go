package validate

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/client/cmd/internal/logger"
	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/compiler"
	"github.com/srmds/takeoff/internal/errors"
)

type validateCommand struct {
	logger log.Logger
	flags  internal.ProjectFlags
}

// NewValidateCommand initializes command to validate the project files
func NewValidateCommand() *cobra.Command {
	validate := &validateCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration, the deployment definition and the job templates",
		Long: heredoc.Doc(`Check .takeoff/config.yml and .takeoff/deployment.yml and render every job
				template for the current build. Nothing is deployed.`),
		Example: "takeoff validate [--environment prd]",
		RunE:    validate.RunE,
	}
	validate.flags.Inject(cmd.Flags())
	return cmd
}

func (v *validateCommand) RunE(_ *cobra.Command, _ []string) error {
	project, err := internal.LoadProject(v.flags)
	if err != nil {
		return err
	}
	v.logger = logger.NewClientLogger(project.Config.Log)

	if err := config.ValidateDeployment(project.Config, project.Deployment); err != nil {
		return err
	}

	builder := job.NewBuilder(config.FS, compiler.NewEngine())
	runner := deployment.NewRunner(project.Config, project.Deployment, project.App, builder, nil, nil, v.logger)

	me := errors.NewMultiError("invalid job templates")
	for _, step := range project.Deployment.Steps {
		if step.Task != config.TaskDeployToDatabricks {
			continue
		}
		s, err := project.Deployment.DeployToDatabricks(step)
		if err != nil {
			return err
		}
		for _, def := range s.Jobs {
			_, target, err := runner.BuildJob(def)
			if err != nil {
				me.Append(err)
				continue
			}
			v.logger.Info("job %s renders from %s", target.Name, target.TemplatePath)
		}
	}
	if err := errors.MultiToError(me); err != nil {
		return err
	}

	v.logger.Info("deployment of %s to %s is valid", project.App.ApplicationName, project.App.Version.Environment)
	return nil
}
