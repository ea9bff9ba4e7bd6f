package events

import (
	"fmt"

	"barberbook/pkg/config"
	"barberbook/pkg/kafka"
	kafka_config "barberbook/pkg/kafka/config"
	kafka_middleware "barberbook/pkg/kafka/middleware"
	"barberbook/pkg/logger"
	"barberbook/pkg/metrics"
)

// Stream selects which topics a publisher writes to.
type Stream int

const (
	AppointmentStream Stream = iota
	ReviewStream
)

// NewPublisherFromConfig returns a Kafka-backed publisher for the requested
// streams, or a NoopPublisher when events are disabled.
func NewPublisherFromConfig(cfg *config.Config, m *metrics.Metrics, source string, streams ...Stream) (Publisher, error) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return NoopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, fmt.Errorf("load kafka config: %w", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	var appointments, reviews *kafka.Producer
	for _, stream := range streams {
		switch stream {
		case AppointmentStream:
			if appointments, err = newProducer(kafkaCfg, cfg.AppointmentsTopic, m, cfg.Log); err != nil {
				return nil, err
			}
		case ReviewStream:
			if reviews, err = newProducer(kafkaCfg, cfg.ReviewsTopic, m, cfg.Log); err != nil {
				if appointments != nil {
					_ = appointments.Close()
				}
				return nil, err
			}
		}
	}
	return NewKafkaPublisher(appointments, reviews, source, cfg.Log), nil
}

func newProducer(kafkaCfg *kafka_config.Config, topic string, m *metrics.Metrics, log *logger.Logger) (*kafka.Producer, error) {
	producer, err := kafka.NewProducer(kafkaCfg, topic, kafka.DLQTopic(topic), log)
	if err != nil {
		return nil, fmt.Errorf("create producer for %s: %w", topic, err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}
	return producer, nil
}
