package connection

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/odpf/salt/log"

	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/deployment"
	"github.com/srmds/takeoff/core/event"
	"github.com/srmds/takeoff/core/version"
	"github.com/srmds/takeoff/ext/artifact"
	"github.com/srmds/takeoff/ext/azure"
	"github.com/srmds/takeoff/ext/scheduler/databricks"
	"github.com/srmds/takeoff/ext/transport/kafka"
)

const httpTimeout = time.Minute

// Services opens the collaborators of a deployment for the configured azure
// environment. Every collaborator is opened once, on first use.
type Services struct {
	conf   *config.Config
	app    version.Metadata
	logger log.Logger

	store      azure.SecretStore
	databricks *databricks.Client
	closers    []io.Closer
}

func New(conf *config.Config, app version.Metadata, logger log.Logger) *Services {
	return &Services{conf: conf, app: app, logger: logger}
}

func (s *Services) resourceName(naming string) string {
	return config.ResourceName(naming, s.app.Version)
}

func (s *Services) secretStore() (azure.SecretStore, error) {
	if s.store != nil {
		return s.store, nil
	}
	name := s.resourceName(s.conf.Azure.KeyvaultNaming)
	s.logger.Debug("opening key vault %s", name)
	kv, err := azure.NewDefaultKeyVault(name)
	if err != nil {
		return nil, err
	}
	s.store = kv
	return kv, nil
}

func (s *Services) DatabricksClient(ctx context.Context) (*databricks.Client, error) {
	if s.databricks != nil {
		return s.databricks, nil
	}
	store, err := s.secretStore()
	if err != nil {
		return nil, err
	}
	host, err := store.GetSecret(ctx, s.conf.Azure.KeyvaultKeys.DatabricksHost)
	if err != nil {
		return nil, err
	}
	token, err := store.GetSecret(ctx, s.conf.Azure.KeyvaultKeys.DatabricksToken)
	if err != nil {
		return nil, err
	}
	s.databricks = databricks.NewClient(host, token, &http.Client{Timeout: httpTimeout})
	return s.databricks, nil
}

func (s *Services) Databricks(ctx context.Context) (deployment.Databricks, error) {
	client, err := s.DatabricksClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CosmosAccount opens the cosmos account of the environment with the
// service principal kept in the key vault.
func (s *Services) CosmosAccount(ctx context.Context) (*azure.Cosmos, error) {
	store, err := s.secretStore()
	if err != nil {
		return nil, err
	}
	sp, err := azure.ServicePrincipalFromStore(ctx, store, s.conf.Azure.KeyvaultKeys)
	if err != nil {
		return nil, err
	}
	resourceGroup := s.resourceName(s.conf.Azure.ResourceGroupNaming)
	account := s.resourceName(s.conf.Azure.CosmosNaming)
	s.logger.Debug("opening cosmos account %s in resource group %s", account, resourceGroup)
	return azure.OpenCosmos(sp, resourceGroup, account)
}

func (s *Services) Cosmos(ctx context.Context) (deployment.CosmosSecrets, error) {
	cosmos, err := s.CosmosAccount(ctx)
	if err != nil {
		return nil, err
	}
	return cosmos, nil
}

func (s *Services) Artifacts(ctx context.Context) (deployment.ArtifactUploader, error) {
	bucket, err := artifact.OpenBucket(ctx, s.conf.Common.ArtifactsBucket)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, bucket)
	return artifact.NewUploader(config.FS, bucket, s.logger), nil
}

func (s *Services) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// NewPublisher returns a kafka publisher when brokers are configured, a
// publisher dropping all events otherwise.
func NewPublisher(events config.Events, logger log.Logger) event.Publisher {
	brokers := events.Brokers()
	if len(brokers) == 0 {
		return event.NoopPublisher{}
	}
	return kafka.NewPublisher(brokers, events.KafkaTopic, logger)
}
