package deployment_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/event"
	"github.com/srmds/takeoff/core/job"
)

type DatabricksMock struct {
	mock.Mock
}

func (m *DatabricksMock) ListJobs(ctx context.Context) ([]job.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]job.Summary), args.Error(1)
}

func (m *DatabricksMock) CreateJob(ctx context.Context, doc *job.Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DatabricksMock) ResetJob(ctx context.Context, jobID int64, doc *job.Document) error {
	return m.Called(ctx, jobID, doc).Error(0)
}

func (m *DatabricksMock) ActiveRuns(ctx context.Context, jobID int64) ([]int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *DatabricksMock) CancelRun(ctx context.Context, runID int64) error {
	return m.Called(ctx, runID).Error(0)
}

func (m *DatabricksMock) RunNow(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DatabricksMock) EnsureScope(ctx context.Context, scope string) error {
	return m.Called(ctx, scope).Error(0)
}

func (m *DatabricksMock) PutSecret(ctx context.Context, scope, key, value string) error {
	return m.Called(ctx, scope, key, value).Error(0)
}

type CosmosMock struct {
	mock.Mock
}

func (m *CosmosMock) Secrets(ctx context.Context, readOnly bool) (map[string]string, error) {
	args := m.Called(ctx, readOnly)
	return args.Get(0).(map[string]string), args.Error(1)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) UploadBuild(ctx context.Context, sourceDir, applicationName, version string, lang job.Language) ([]string, error) {
	args := m.Called(ctx, sourceDir, applicationName, version, lang)
	return args.Get(0).([]string), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, events ...event.DeploymentEvent) error {
	return m.Called(ctx, events).Error(0)
}

func (m *PublisherMock) Close() error {
	return m.Called().Error(0)
}

// services hands out the given mocks, nil collaborators are never expected
// to be opened.
type services struct {
	databricks *DatabricksMock
	cosmos     *CosmosMock
	uploader   *UploaderMock
}

func (s services) Databricks(context.Context) (deployment.Databricks, error) {
	if s.databricks == nil {
		panic("databricks is not expected to be opened")
	}
	return s.databricks, nil
}

func (s services) Cosmos(context.Context) (deployment.CosmosSecrets, error) {
	if s.cosmos == nil {
		panic("cosmos is not expected to be opened")
	}
	return s.cosmos, nil
}

func (s services) Artifacts(context.Context) (deployment.ArtifactUploader, error) {
	if s.uploader == nil {
		panic("artifacts are not expected to be opened")
	}
	return s.uploader, nil
}
