package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"barberbook/pkg/kafka"
	"barberbook/pkg/logger"
	"barberbook/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsConsumerMiddleware(t *testing.T) {
	m := metrics.NewNoop()
	mw := MetricsConsumerMiddleware(m)
	msg := kafka.Message{Topic: "reviews.events", Headers: map[string]string{}}

	_ = mw(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error { return errors.New("x") })

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("reviews.events", statusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("reviews.events", statusFailed)))
}

func TestMetricsProducerMiddleware(t *testing.T) {
	m := metrics.NewNoop()
	mw := MetricsProducerMiddleware(m)
	msg := kafka.Message{Topic: "appointments.events", Headers: map[string]string{}}

	err := mw(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("appointments.events", statusOK)))
}

func TestLoggingMiddlewarePassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	msg := kafka.Message{Headers: map[string]string{}}

	err := LoggingConsumerMiddleware(logger.Discard())(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = LoggingProducerMiddleware(logger.Discard())(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error {
		return nil
	})
	assert.NoError(t, err)
}
