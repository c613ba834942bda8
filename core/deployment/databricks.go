package deployment

import (
	"context"

	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/event"
	"github.com/srmds/takeoff/core/job"
)

// Target is where a job definition is deployed to for the current build.
type Target struct {
	// BaseName is the job name without the artifact tag, used to find the
	// jobs registered for earlier builds.
	BaseName     string
	Name         string
	Qualifier    string
	TemplatePath string
	Params       job.Parameters
}

func (r *Runner) Target(def config.JobDefinition) Target {
	v := r.app.Version
	baseName := job.ConstructName(r.app.ApplicationName, def.Name)
	name := job.ConstructName(baseName, v.ArtifactTag())

	libs := job.LibraryLocations(r.conf.Common.DatabricksLibraryPath, r.app.ApplicationName, v.Version, def.Lang)
	entryPoint := def.MainName
	if !def.Lang.IsJVM() {
		entryPoint = libs.PythonFile
	}

	return Target{
		BaseName:     baseName,
		Name:         name,
		Qualifier:    v.ArtifactTag(),
		TemplatePath: r.deployment.TemplatePath(def.ConfigFile),
		Params: job.Parameters{
			ApplicationName: r.app.ApplicationName,
			JobNameOverride: name,
			LogDestination:  name,
			Libraries:       libs,
			EntryPoint:      entryPoint,
			Arguments:       def.Arguments,
			Schedule:        def.Schedule,
		},
	}
}

// BuildJob renders the job document of a job definition.
func (r *Runner) BuildJob(def config.JobDefinition) (*job.Document, Target, error) {
	target := r.Target(def)
	doc, err := r.builder.Build(target.TemplatePath, target.Params, r.app.Version.Environment)
	if err != nil {
		return nil, target, err
	}
	return doc, target, nil
}

// deployToDatabricks builds every job document before the scheduler is
// called, so a broken template leaves all jobs untouched.
func (r *Runner) deployToDatabricks(ctx context.Context, step config.Step) error {
	s, err := r.deployment.DeployToDatabricks(step)
	if err != nil {
		return err
	}

	docs := make([]*job.Document, len(s.Jobs))
	targets := make([]Target, len(s.Jobs))
	for i, def := range s.Jobs {
		docs[i], targets[i], err = r.BuildJob(def)
		if err != nil {
			return err
		}
	}

	client, err := r.services.Databricks(ctx)
	if err != nil {
		return err
	}
	for i := range docs {
		if err := r.deployJob(ctx, client, docs[i], targets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) deployJob(ctx context.Context, client JobsClient, doc *job.Document, target Target) error {
	existing, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}
	ids := job.ResolveIDs(target.BaseName, target.Qualifier, existing)

	action := event.ActionUpdated
	if len(ids) == 0 {
		r.logger.Info("creating job %s", target.Name)
		id, err := client.CreateJob(ctx, doc)
		if err != nil {
			return err
		}
		ids = []int64{id}
		action = event.ActionCreated
	} else {
		for _, id := range ids {
			r.logger.Info("updating job %s (%d)", target.Name, id)
			if err := client.ResetJob(ctx, id, doc); err != nil {
				return err
			}
		}
	}

	streaming := job.IsStreaming(doc)
	if streaming {
		for _, id := range ids {
			if err := r.restart(ctx, client, id); err != nil {
				return err
			}
		}
	}

	e := event.NewDeploymentEvent(r.app.ApplicationName, r.app.Version.Version, r.app.Version.Environment,
		target.Name, ids, action, streaming)
	return r.publisher.Publish(ctx, e)
}

// restart cancels the active runs of a streaming job and starts a new run.
func (r *Runner) restart(ctx context.Context, client JobsClient, jobID int64) error {
	runs, err := client.ActiveRuns(ctx, jobID)
	if err != nil {
		return err
	}
	for _, runID := range runs {
		r.logger.Info("cancelling run %d of job %d", runID, jobID)
		if err := client.CancelRun(ctx, runID); err != nil {
			return err
		}
	}
	runID, err := client.RunNow(ctx, jobID)
	if err != nil {
		return err
	}
	r.logger.Info("started run %d of job %d", runID, jobID)
	return nil
}
