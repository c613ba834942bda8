package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// DeploymentEvent is published for every job deployed to databricks.
type DeploymentEvent struct {
	ID          uuid.UUID `json:"id"`
	Application string    `json:"application"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	JobName     string    `json:"job_name"`
	JobIDs      []int64   `json:"job_ids"`
	Action      Action    `json:"action"`
	Streaming   bool      `json:"streaming"`
	DeployedAt  time.Time `json:"deployed_at"`
}

func NewDeploymentEvent(application, version, environment, jobName string, jobIDs []int64, action Action, streaming bool) DeploymentEvent {
	return DeploymentEvent{
		ID:          uuid.New(),
		Application: application,
		Version:     version,
		Environment: environment,
		JobName:     jobName,
		JobIDs:      jobIDs,
		Action:      action,
		Streaming:   streaming,
		DeployedAt:  time.Now().UTC(),
	}
}

func (e DeploymentEvent) Bytes() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, events ...DeploymentEvent) error
	Close() error
}

// NoopPublisher drops every event, used when no event sink is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...DeploymentEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
