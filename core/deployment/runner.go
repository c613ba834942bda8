package deployment

import (
	"context"
	"fmt"

	"github.com/odpf/salt/log"

	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/event"
	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/core/version"
)

type stepFunc func(ctx context.Context, step config.Step) error

// Runner executes the steps of a deployment in order.
type Runner struct {
	conf       *config.Config
	deployment *config.Deployment
	app        version.Metadata

	builder   *job.Builder
	services  Services
	publisher event.Publisher
	logger    log.Logger

	steps map[string]stepFunc
}

func NewRunner(conf *config.Config, deployment *config.Deployment, app version.Metadata,
	builder *job.Builder, services Services, publisher event.Publisher, logger log.Logger,
) *Runner {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	r := &Runner{
		conf:       conf,
		deployment: deployment,
		app:        app,
		builder:    builder,
		services:   services,
		publisher:  publisher,
		logger:     logger,
	}
	r.steps = map[string]stepFunc{
		config.TaskDeployToDatabricks:                r.deployToDatabricks,
		config.TaskCreateDatabricksSecretsFromCosmos: r.createSecretsFromCosmos,
		config.TaskUploadArtifacts:                   r.uploadArtifacts,
	}
	return r
}

// Run validates the deployment and runs every step. It stops at the first
// failing step.
func (r *Runner) Run(ctx context.Context) error {
	if err := config.ValidateDeployment(r.conf, r.deployment); err != nil {
		return err
	}

	total := len(r.deployment.Steps)
	for i, step := range r.deployment.Steps {
		r.logger.Info("> [%d/%d] %s", i+1, total, step.Task)
		if err := r.steps[step.Task](ctx, step); err != nil {
			return fmt.Errorf("step %d (%s) failed: %w", i+1, step.Task, err)
		}
	}
	r.logger.Info("deployed %s %s to %s", r.app.ApplicationName, r.app.Version.Version, r.app.Version.Environment)
	return nil
}

func (r *Runner) createSecretsFromCosmos(ctx context.Context, step config.Step) error {
	s, err := r.deployment.CosmosSecrets(step)
	if err != nil {
		return err
	}
	scope := s.ScopeName
	if scope == "" {
		scope = r.app.ApplicationName
	}

	cosmos, err := r.services.Cosmos(ctx)
	if err != nil {
		return err
	}
	secrets, err := cosmos.Secrets(ctx, s.ReadOnly)
	if err != nil {
		return err
	}

	client, err := r.services.Databricks(ctx)
	if err != nil {
		return err
	}
	return putSecrets(ctx, client, scope, secrets, r.logger)
}

func (r *Runner) uploadArtifacts(ctx context.Context, step config.Step) error {
	s, err := r.deployment.UploadArtifacts(step)
	if err != nil {
		return err
	}
	uploader, err := r.services.Artifacts(ctx)
	if err != nil {
		return err
	}
	keys, err := uploader.UploadBuild(ctx, s.SourceDir, r.app.ApplicationName, r.app.Version.Version, s.Lang)
	if err != nil {
		return err
	}
	r.logger.Info("uploaded %d artifacts from %s", len(keys), s.SourceDir)
	return nil
}
