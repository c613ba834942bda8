package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/odpf/salt/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

const (
	writeTimeout = time.Second * 3
)

var kafkaQueueCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "takeoff_kafka_events_queued_total",
	Help: "Number of deployment events queued to be published to kafka topic",
})

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Writer struct {
	logger log.Logger

	kafkaWriter messageWriter
}

func NewWriter(kafkaBrokerUrls []string, topic string, logger log.Logger) *Writer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaBrokerUrls...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            1,
		WriteTimeout:           writeTimeout,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}

	return &Writer{kafkaWriter: writer, logger: logger}
}

func (w *Writer) Close() error {
	return w.kafkaWriter.Close()
}

// Write sends the messages, each keyed so that events of one job land on
// the same partition.
func (w *Writer) Write(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return w.send(ctx, messages)
}

func (w *Writer) send(ctx context.Context, messages []kafka.Message) error {
	err := w.kafkaWriter.WriteMessages(ctx, messages...)
	if err != nil {
		var messageSizeError kafka.MessageTooLargeError
		if errors.As(err, &messageSizeError) {
			w.logger.Error("Received too large message error for a message, trying remaining")
			w.logger.Error("Discarded message: %s", string(messageSizeError.Message.Value))

			return w.send(ctx, messageSizeError.Remaining)
		}

		return err
	}

	kafkaQueueCounter.Add(float64(len(messages)))
	return nil
}
