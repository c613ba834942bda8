package kafka

import (
	"context"

	"github.com/odpf/salt/log"
	"github.com/segmentio/kafka-go"

	"github.com/srmds/takeoff/core/event"
	"github.com/srmds/takeoff/internal/errors"
)

const EntityEventPublisher = "event publisher"

// Publisher writes deployment events as json messages to a kafka topic.
type Publisher struct {
	writer *Writer
}

func NewPublisher(brokers []string, topic string, logger log.Logger) *Publisher {
	return &Publisher{writer: NewWriter(brokers, topic, logger)}
}

func (p *Publisher) Publish(ctx context.Context, events ...event.DeploymentEvent) error {
	messages := make([]kafka.Message, len(events))
	for i, e := range events {
		value, err := e.Bytes()
		if err != nil {
			return errors.API(EntityEventPublisher, "unable to encode event for job "+e.JobName, err)
		}
		messages[i] = kafka.Message{
			Key:   []byte(e.JobName),
			Value: value,
		}
	}
	if err := p.writer.Write(ctx, messages); err != nil {
		return errors.API(EntityEventPublisher, "unable to publish deployment events", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
