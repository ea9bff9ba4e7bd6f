package events

import (
	"context"
	"time"

	"barberbook/pkg/kafka"
	"barberbook/pkg/model"
)

const SchemaVersion = "1"

const (
	AppointmentCreated       = "appointment.created"
	AppointmentStatusChanged = "appointment.status_changed"

	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

type AppointmentEvent struct {
	Type            string                  `json:"type"`
	AppointmentID   string                  `json:"appointment_id"`
	BarberID        string                  `json:"barber_id"`
	CustomerID      string                  `json:"customer_id"`
	Date            string                  `json:"date"`
	StartTime       string                  `json:"start_time"`
	DurationMinutes int                     `json:"duration_minutes"`
	From            model.AppointmentStatus `json:"from,omitempty"`
	Status          model.AppointmentStatus `json:"status"`
	ActorRole       model.Role              `json:"actor_role,omitempty"`
	OccurredAt      time.Time               `json:"occurred_at"`
}

func NewAppointmentEvent(eventType string, appt *model.Appointment, from model.AppointmentStatus, role model.Role) AppointmentEvent {
	return AppointmentEvent{
		Type:            eventType,
		AppointmentID:   appt.ID,
		BarberID:        appt.BarberID,
		CustomerID:      appt.CustomerID,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		From:            from,
		Status:          appt.Status,
		ActorRole:       role,
		OccurredAt:      appt.UpdatedAt,
	}
}

type ReviewEvent struct {
	Type          string    `json:"type"`
	ReviewID      string    `json:"review_id"`
	AppointmentID string    `json:"appointment_id"`
	BarberID      string    `json:"barber_id"`
	CustomerID    string    `json:"customer_id"`
	Rating        int       `json:"rating"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReviewEvent(eventType string, review *model.Review, at time.Time) ReviewEvent {
	return ReviewEvent{
		Type:          eventType,
		ReviewID:      review.ID,
		AppointmentID: review.AppointmentID,
		BarberID:      review.BarberID,
		CustomerID:    review.CustomerID,
		Rating:        review.Rating,
		OccurredAt:    at.UTC(),
	}
}

// Publisher emits domain events after the state change they describe has
// been committed.
type Publisher interface {
	PublishAppointment(ctx context.Context, event AppointmentEvent) error
	PublishReview(ctx context.Context, event ReviewEvent) error
	Close() error
}

func DecodeReviewEvent(msg kafka.Message) (ReviewEvent, error) {
	var event ReviewEvent
	if err := msg.DecodeValue(&event); err != nil {
		return ReviewEvent{}, err
	}
	if event.BarberID == "" {
		return ReviewEvent{}, kafka.NewPermanentError("review event without barber_id", kafka.ErrInvalidMessage)
	}
	if event.Type == "" {
		event.Type = msg.GetEventType()
	}
	return event, nil
}
