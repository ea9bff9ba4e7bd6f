package events

import (
	"context"
	"errors"

	"barberbook/pkg/kafka"
	"barberbook/pkg/logger"
	"barberbook/pkg/middleware"
)

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher writes appointment and review events to their topics, keyed
// by barber id so each barber's events stay ordered on one partition. Either
// producer may be nil when a service never emits that kind.
type KafkaPublisher struct {
	appointments producer
	reviews      producer
	source       string
	log          *logger.Logger
}

func NewKafkaPublisher(appointments, reviews *kafka.Producer, source string, log *logger.Logger) *KafkaPublisher {
	p := &KafkaPublisher{source: source, log: log.Component("events")}
	if appointments != nil {
		p.appointments = appointments
	}
	if reviews != nil {
		p.reviews = reviews
	}
	return p
}

func (p *KafkaPublisher) PublishAppointment(ctx context.Context, event AppointmentEvent) error {
	return p.publish(ctx, p.appointments, event.Type, event.BarberID, event)
}

func (p *KafkaPublisher) PublishReview(ctx context.Context, event ReviewEvent) error {
	return p.publish(ctx, p.reviews, event.Type, event.BarberID, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, prod producer, eventType, key string, payload any) error {
	if prod == nil {
		p.log.Debug("No producer for event, skipping", "event_type", eventType)
		return nil
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return err
	}

	return prod.Publish(context.WithoutCancel(ctx), msg)
}

func (p *KafkaPublisher) Close() error {
	var err error
	if p.appointments != nil {
		err = p.appointments.Close()
	}
	if p.reviews != nil {
		err = errors.Join(err, p.reviews.Close())
	}
	return err
}

// NoopPublisher drops every event. Used when EVENTS_ENABLED is false.
type NoopPublisher struct{}

func (NoopPublisher) PublishAppointment(context.Context, AppointmentEvent) error { return nil }
func (NoopPublisher) PublishReview(context.Context, ReviewEvent) error           { return nil }
func (NoopPublisher) Close() error                                                { return nil }
