// Package ratings derives a barber's rating aggregate from its reviews.
// The aggregate is always recomputed from scratch, so replaying review
// events converges on the same value.
package ratings

import (
	"context"
	"errors"
	"fmt"

	barberserrors "barberbook/internal/barbers/errors"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/metrics"
	"barberbook/pkg/model"
)

const (
	TriggerCreated = "created"
	TriggerUpdated = "updated"
	TriggerDeleted = "deleted"
	TriggerEvent   = "event"
)

type ReviewStats interface {
	Aggregate(ctx context.Context, barberID string) (model.RatingAggregate, error)
}

type RatingWriter interface {
	ApplyRating(ctx context.Context, barberID string, aggregate model.RatingAggregate) error
}

type Aggregator struct {
	stats   ReviewStats
	writer  RatingWriter
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewAggregator(stats ReviewStats, writer RatingWriter, m *metrics.Metrics, log *logger.Logger) *Aggregator {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Aggregator{
		stats:   stats,
		writer:  writer,
		metrics: m,
		log:     log,
	}
}

// Recompute derives mean and count over all reviews of barberID and stores
// them on the barber. Passing a session context runs both steps inside
// the caller's transaction.
func (a *Aggregator) Recompute(ctx context.Context, barberID, trigger string) (model.RatingAggregate, error) {
	if barberID == "" {
		return model.RatingAggregate{}, apperrors.InvalidInput("Barber ID cannot be empty")
	}

	aggregate, err := a.stats.Aggregate(ctx, barberID)
	if err != nil {
		return model.RatingAggregate{}, mongotx.StorageError("aggregate reviews", err)
	}
	if aggregate.ReviewCount == 0 {
		aggregate = model.RatingAggregate{}
	}

	if err := a.writer.ApplyRating(ctx, barberID, aggregate); err != nil {
		if errors.Is(err, barberserrors.ErrNotFound) {
			return model.RatingAggregate{}, apperrors.NotFoundWithID("Barber", barberID)
		}
		return model.RatingAggregate{}, mongotx.StorageError(fmt.Sprintf("apply rating to barber %s", barberID), err)
	}

	a.metrics.RatingRecomputations.WithLabelValues(trigger).Inc()
	a.log.Debug("Barber rating recomputed",
		"barber_id", barberID,
		"trigger", trigger,
		"rating", aggregate.Rating,
		"review_count", aggregate.ReviewCount,
	)
	return aggregate, nil
}
