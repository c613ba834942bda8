package job

import (
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/compiler"
)

// NewJobCommand initializes command for job
func NewJobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect the databricks jobs of the application",
		Annotations: map[string]string{
			"group:core": "true",
		},
	}

	cmd.AddCommand(
		NewListCommand(),
		NewRenderCommand(),
	)
	return cmd
}

// jobDefinitions returns the jobs of every deployToDatabricks step.
func jobDefinitions(d *config.Deployment) ([]config.JobDefinition, error) {
	var defs []config.JobDefinition
	for _, step := range d.Steps {
		if step.Task != config.TaskDeployToDatabricks {
			continue
		}
		s, err := d.DeployToDatabricks(step)
		if err != nil {
			return nil, err
		}
		defs = append(defs, s.Jobs...)
	}
	return defs, nil
}

// newRunner returns a runner able to name and render jobs, it can't deploy.
func newRunner(project *internal.Project, logger log.Logger) *deployment.Runner {
	builder := job.NewBuilder(config.FS, compiler.NewEngine())
	return deployment.NewRunner(project.Config, project.Deployment, project.App, builder, nil, nil, logger)
}
