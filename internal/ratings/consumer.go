package ratings

import (
	"context"

	"barberbook/internal/events"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/kafka"
)

// EventHandler returns the ratings-worker message handler. Every review
// event triggers a full recompute for its barber. A barber that no longer
// exists is not retried.
func (a *Aggregator) EventHandler() kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := events.DecodeReviewEvent(msg)
		if err != nil {
			return err
		}

		if _, err := a.Recompute(ctx, event.BarberID, TriggerEvent); err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) || apperrors.IsCode(err, apperrors.CodeInvalidInput) {
				return kafka.NewPermanentError("review event for unknown barber "+event.BarberID, err)
			}
			return kafka.NewTransientError("recompute barber rating", err)
		}

		a.log.Info("Applied review event",
			"event_type", event.Type,
			"review_id", event.ReviewID,
			"barber_id", event.BarberID,
			"correlation_id", msg.GetCorrelationID(),
		)
		return nil
	}
}
