package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"barberbook/pkg/kafka"
	"barberbook/pkg/logger"
	"barberbook/pkg/middleware"
	"barberbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	published []kafka.Message
	err       error
}

func (f *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisher_PublishAppointment(t *testing.T) {
	prod := &fakeProducer{}
	p := &KafkaPublisher{appointments: prod, source: "appointments", log: logger.Discard()}

	appt := &model.Appointment{
		ID:              "64b000000000000000000001",
		BarberID:        "64b0000000000000000000aa",
		CustomerID:      "cust-1",
		Date:            "2026-03-02",
		StartTime:       "09:30",
		DurationMinutes: 30,
		Status:          model.StatusConfirmed,
		UpdatedAt:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-9")
	event := NewAppointmentEvent(AppointmentStatusChanged, appt, model.StatusPending, model.RoleProvider)

	require.NoError(t, p.PublishAppointment(ctx, event))
	require.Len(t, prod.published, 1)

	msg := prod.published[0]
	assert.Equal(t, appt.BarberID, msg.Key)
	assert.Equal(t, AppointmentStatusChanged, msg.GetEventType())
	assert.Equal(t, "req-9", msg.GetCorrelationID())
	assert.Equal(t, SchemaVersion, msg.Headers[kafka.HeaderSchemaVersion])

	var decoded AppointmentEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, model.StatusPending, decoded.From)
	assert.Equal(t, model.StatusConfirmed, decoded.Status)
}

func TestKafkaPublisher_MissingProducerIsSkipped(t *testing.T) {
	p := NewKafkaPublisher(nil, nil, "reviews", logger.Discard())
	assert.NoError(t, p.PublishReview(context.Background(), ReviewEvent{Type: ReviewCreated, BarberID: "b"}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_PropagatesErrors(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{reviews: &fakeProducer{err: boom}, log: logger.Discard()}
	assert.ErrorIs(t, p.PublishReview(context.Background(), ReviewEvent{Type: ReviewCreated, BarberID: "b"}), boom)
}

func TestDecodeReviewEvent(t *testing.T) {
	msg, err := kafka.NewMessage().
		WithKey("b1").
		WithValue(ReviewEvent{BarberID: "b1", Rating: 4}).
		WithEventType(ReviewUpdated).
		Build()
	require.NoError(t, err)

	event, err := DecodeReviewEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, "b1", event.BarberID)
	assert.Equal(t, ReviewUpdated, event.Type)

	bad := kafka.Message{Value: []byte(`{"rating":3}`), Headers: map[string]string{}}
	_, err = DecodeReviewEvent(bad)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
}
