package kafka_middleware

import (
	"context"

	"barberbook/pkg/kafka"
	"barberbook/pkg/metrics"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

func status(err error) string {
	if err != nil {
		return statusFailed
	}
	return statusOK
}

// MetricsProducerMiddleware counts published events by topic and outcome
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)
		m.EventsPublished.WithLabelValues(msg.Topic, status(err)).Inc()
		return err
	}
}

// MetricsConsumerMiddleware counts consumed events by topic and outcome
func MetricsConsumerMiddleware(m *metrics.Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)
		m.EventsConsumed.WithLabelValues(msg.Topic, status(err)).Inc()
		return err
	}
}
