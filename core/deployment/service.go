package deployment

import (
	"context"

	"github.com/srmds/takeoff/core/job"
)

// JobsClient manages the jobs of a databricks workspace.
type JobsClient interface {
	ListJobs(ctx context.Context) ([]job.Summary, error)
	CreateJob(ctx context.Context, doc *job.Document) (int64, error)
	ResetJob(ctx context.Context, jobID int64, doc *job.Document) error
	ActiveRuns(ctx context.Context, jobID int64) ([]int64, error)
	CancelRun(ctx context.Context, runID int64) error
	RunNow(ctx context.Context, jobID int64) (int64, error)
}

// SecretsClient manages databricks secret scopes.
type SecretsClient interface {
	EnsureScope(ctx context.Context, scope string) error
	PutSecret(ctx context.Context, scope, key, value string) error
}

type Databricks interface {
	JobsClient
	SecretsClient
}

// CosmosSecrets returns the cosmos credentials keyed by secret name.
type CosmosSecrets interface {
	Secrets(ctx context.Context, readOnly bool) (map[string]string, error)
}

// ArtifactUploader uploads the build output of an application and returns
// the keys written.
type ArtifactUploader interface {
	UploadBuild(ctx context.Context, sourceDir, applicationName, version string, lang job.Language) ([]string, error)
}

// Services opens the collaborators of the steps. They are opened on first
// use, so a deployment only needs credentials for the steps it runs.
type Services interface {
	Databricks(ctx context.Context) (Databricks, error)
	Cosmos(ctx context.Context) (CosmosSecrets, error)
	Artifacts(ctx context.Context) (ArtifactUploader, error)
}
