package ratings

import (
	"context"
	"errors"
	"sync"
	"testing"

	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/internal/events"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/kafka"
	"barberbook/pkg/logger"
	"barberbook/pkg/metrics"
	"barberbook/pkg/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barberID = "64b0000000000000000000aa"

type memoryStats struct {
	ratings map[string][]int
	err     error
}

func (m *memoryStats) Aggregate(ctx context.Context, barberID string) (model.RatingAggregate, error) {
	if m.err != nil {
		return model.RatingAggregate{}, m.err
	}
	rs := m.ratings[barberID]
	if len(rs) == 0 {
		return model.RatingAggregate{}, nil
	}
	sum := 0
	for _, r := range rs {
		sum += r
	}
	return model.RatingAggregate{Rating: float64(sum) / float64(len(rs)), ReviewCount: len(rs)}, nil
}

type memoryWriter struct {
	mu      sync.Mutex
	applied map[string]model.RatingAggregate
}

func (m *memoryWriter) ApplyRating(ctx context.Context, barberID string, aggregate model.RatingAggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if barberID != "64b0000000000000000000aa" {
		return barberserrors.ErrNotFound
	}
	m.applied[barberID] = aggregate
	return nil
}

func newTestAggregator(ratings ...int) (*Aggregator, *memoryStats, *memoryWriter, *metrics.Metrics) {
	stats := &memoryStats{ratings: map[string][]int{barberID: ratings}}
	writer := &memoryWriter{applied: map[string]model.RatingAggregate{}}
	m := metrics.NewNoop()
	return NewAggregator(stats, writer, m, logger.Discard()), stats, writer, m
}

func TestRecompute_MeanAndCount(t *testing.T) {
	agg, _, writer, m := newTestAggregator(5, 4, 4)

	got, err := agg.Recompute(context.Background(), barberID, TriggerCreated)
	require.NoError(t, err)

	assert.InDelta(t, 13.0/3.0, got.Rating, 1e-9)
	assert.Equal(t, 3, got.ReviewCount)
	assert.Equal(t, got, writer.applied[barberID])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingRecomputations.WithLabelValues(TriggerCreated)))
}

func TestRecompute_ResetsWhenNoReviews(t *testing.T) {
	agg, _, writer, _ := newTestAggregator()
	writer.applied[barberID] = model.RatingAggregate{Rating: 4.5, ReviewCount: 2}

	got, err := agg.Recompute(context.Background(), barberID, TriggerDeleted)
	require.NoError(t, err)

	assert.Equal(t, model.RatingAggregate{}, got)
	assert.Equal(t, model.RatingAggregate{}, writer.applied[barberID])
}

func TestRecompute_IsIdempotent(t *testing.T) {
	agg, _, _, _ := newTestAggregator(3, 5)

	first, err := agg.Recompute(context.Background(), barberID, TriggerEvent)
	require.NoError(t, err)
	second, err := agg.Recompute(context.Background(), barberID, TriggerEvent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 4.0, second.Rating)
}

func TestRecompute_Errors(t *testing.T) {
	agg, stats, _, _ := newTestAggregator(5)

	_, err := agg.Recompute(context.Background(), "64b0000000000000000000ff", TriggerEvent)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	stats.err = context.DeadlineExceeded
	_, err = agg.Recompute(context.Background(), barberID, TriggerEvent)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
}

func reviewMessage(t *testing.T, event events.ReviewEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(event.BarberID).
		WithValue(event).
		WithEventType(event.Type).
		Build()
	require.NoError(t, err)
	return msg
}

func TestEventHandler_Recomputes(t *testing.T) {
	agg, _, writer, m := newTestAggregator(2, 4)
	handler := agg.EventHandler()

	msg := reviewMessage(t, events.ReviewEvent{Type: events.ReviewCreated, ReviewID: "r1", BarberID: barberID, Rating: 4})
	require.NoError(t, handler(context.Background(), msg))

	assert.Equal(t, model.RatingAggregate{Rating: 3, ReviewCount: 2}, writer.applied[barberID])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingRecomputations.WithLabelValues(TriggerEvent)))
}

func TestEventHandler_UnknownBarberIsPermanent(t *testing.T) {
	agg, _, _, _ := newTestAggregator()
	handler := agg.EventHandler()

	msg := reviewMessage(t, events.ReviewEvent{Type: events.ReviewDeleted, BarberID: "64b0000000000000000000ff"})
	err := handler(context.Background(), msg)
	require.Error(t, err)

	var kerr *kafka.KafkaError
	require.True(t, errors.As(err, &kerr))
	assert.False(t, kerr.IsTransient())
}

func TestEventHandler_StorageFailureIsTransient(t *testing.T) {
	agg, stats, _, _ := newTestAggregator(5)
	stats.err = context.DeadlineExceeded
	handler := agg.EventHandler()

	err := handler(context.Background(), reviewMessage(t, events.ReviewEvent{Type: events.ReviewUpdated, BarberID: barberID}))
	require.Error(t, err)

	var kerr *kafka.KafkaError
	require.True(t, errors.As(err, &kerr))
	assert.True(t, kerr.IsTransient())
}

func TestEventHandler_MissingBarberIsPermanent(t *testing.T) {
	agg, _, _, _ := newTestAggregator()
	handler := agg.EventHandler()

	err := handler(context.Background(), reviewMessage(t, events.ReviewEvent{Type: events.ReviewCreated}))
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
}
