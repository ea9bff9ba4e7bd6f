package service

import (
	"context"
	"errors"
	"sync"
	"time"

	appointmentserrors "barberbook/internal/appointments/errors"
	"barberbook/internal/events"
	"barberbook/internal/ratings"
	reviewserrors "barberbook/internal/reviews/errors"
	"barberbook/internal/reviews/repository"
	"barberbook/internal/reviews/validator"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
	"barberbook/pkg/sanitizer"
	"barberbook/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewService interface {
	Create(ctx context.Context, req *model.ReviewRequest, actor model.Actor) (*model.Review, error)
	GetByID(ctx context.Context, id string) (*model.Review, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*model.Review, error)
	ListByBarber(ctx context.Context, barberID string, limit int, offset int64) ([]*model.Review, int64, error)
	Update(ctx context.Context, id string, updates *model.ReviewUpdate, actor model.Actor) (*model.Review, error)
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type AppointmentReader interface {
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
}

// RatingRecomputer refreshes a barber's derived rating aggregate.
type RatingRecomputer interface {
	Recompute(ctx context.Context, barberID, trigger string) (model.RatingAggregate, error)
}

type reviewService struct {
	repo         repository.ReviewRepository
	appointments AppointmentReader
	ratings      RatingRecomputer
	publisher    events.Publisher
	validator    *validator.ReviewValidator
	cfg          *config.Config
	now          func() time.Time
}

func NewReviewService(
	repo repository.ReviewRepository,
	appointments AppointmentReader,
	ratings RatingRecomputer,
	publisher events.Publisher,
	validator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &reviewService{
		repo:         repo,
		appointments: appointments,
		ratings:      ratings,
		publisher:    publisher,
		validator:    validator,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *reviewService) Create(ctx context.Context, req *model.ReviewRequest, actor model.Actor) (*model.Review, error) {
	if actor.Role != model.RoleCustomer {
		return nil, apperrors.Forbidden("Only customers can write reviews")
	}

	req.Comment = sanitizer.NormalizeComment(req.Comment)
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, validation.AsAppError("Review validation failed", err)
	}

	appt, err := s.appointments.FindByID(ctx, req.AppointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Appointment", req.AppointmentID)
		case errors.Is(err, appointmentserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, mongotx.StorageError("load appointment", err)
	}
	if appt.CustomerID != actor.UserID {
		return nil, apperrors.Forbidden("Only the customer of an appointment can review it")
	}
	if appt.Status != model.StatusCompleted {
		return nil, apperrors.NotEligible("Only completed appointments can be reviewed")
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	review := &model.Review{
		AppointmentID: appt.ID,
		BarberID:      appt.BarberID,
		CustomerID:    actor.UserID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.validator.Validate(review); err != nil {
		return nil, validation.AsAppError("Review validation failed", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindByAppointment(sessCtx, appt.ID); err == nil {
			return apperrors.Conflict("This appointment has already been reviewed")
		} else if !errors.Is(err, reviewserrors.ErrNotFound) {
			return err
		}

		if err := s.repo.Create(sessCtx, review); err != nil {
			if errors.Is(err, reviewserrors.ErrAlreadyReviewed) {
				return apperrors.Conflict("This appointment has already been reviewed")
			}
			return err
		}

		_, err := s.ratings.Recompute(sessCtx, review.BarberID, ratings.TriggerCreated)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create review",
			"appointment_id", appt.ID,
			"error", err,
		)
		return nil, mongotx.StorageError("create review", err)
	}

	s.cfg.Log.Info("Review created",
		"id", review.ID,
		"appointment_id", review.AppointmentID,
		"barber_id", review.BarberID,
		"rating", review.Rating,
	)
	s.publish(ctx, events.ReviewCreated, review)
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, reviewError("Review", id, err)
	}
	return review, nil
}

func (s *reviewService) GetByAppointment(ctx context.Context, appointmentID string) (*model.Review, error) {
	if appointmentID == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	review, err := s.repo.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, reviewError("Review for appointment", appointmentID, err)
	}
	return review, nil
}

func (s *reviewService) ListByBarber(ctx context.Context, barberID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if barberID == "" {
		return nil, 0, apperrors.InvalidInput("Barber ID cannot be empty")
	}

	var count int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByBarber(ctx, barberID)
		if err != nil {
			s.cfg.Log.Error("Failed to count reviews", "barber_id", barberID, "error", err)
			errCount = mongotx.StorageError("count reviews", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reviews, err = s.repo.FindByBarber(ctx, barberID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reviews", "barber_id", barberID, "error", err)
			errFind = mongotx.StorageError("list reviews", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return reviews, count, nil
}

func (s *reviewService) Update(ctx context.Context, id string, updates *model.ReviewUpdate, actor model.Actor) (*model.Review, error) {
	existing, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if updates.Comment != nil {
		comment := sanitizer.NormalizeComment(*updates.Comment)
		updates.Comment = &comment
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validation.AsAppError("Review validation failed", err)
	}

	merged := *existing
	if updates.Rating != nil {
		merged.Rating = *updates.Rating
	}
	if updates.Comment != nil {
		merged.Comment = *updates.Comment
	}
	merged.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Update(sessCtx, id, merged.Rating, merged.Comment, merged.UpdatedAt); err != nil {
			return err
		}
		_, err := s.ratings.Recompute(sessCtx, merged.BarberID, ratings.TriggerUpdated)
		return err
	})
	if err != nil {
		return nil, reviewError("Review", id, err)
	}

	s.cfg.Log.Info("Review updated",
		"id", id,
		"barber_id", merged.BarberID,
		"rating", merged.Rating,
	)
	s.publish(ctx, events.ReviewUpdated, &merged)
	return &merged, nil
}

func (s *reviewService) Delete(ctx context.Context, id string, actor model.Actor) error {
	existing, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return err
		}
		_, err := s.ratings.Recompute(sessCtx, existing.BarberID, ratings.TriggerDeleted)
		return err
	})
	if err != nil {
		return reviewError("Review", id, err)
	}

	s.cfg.Log.Info("Review deleted",
		"id", id,
		"barber_id", existing.BarberID,
	)
	s.publish(ctx, events.ReviewDeleted, existing)
	return nil
}

func (s *reviewService) loadOwned(ctx context.Context, id string, actor model.Actor) (*model.Review, error) {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleCustomer || actor.UserID != review.CustomerID {
		return nil, apperrors.Forbidden("Only the author can change a review")
	}
	return review, nil
}

func (s *reviewService) publish(ctx context.Context, eventType string, review *model.Review) {
	if err := s.publisher.PublishReview(ctx, events.NewReviewEvent(eventType, review, s.now())); err != nil {
		s.cfg.Log.Error("Failed to publish review event",
			"id", review.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func reviewError(resource, id string, err error) error {
	switch {
	case errors.Is(err, reviewserrors.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, reviewserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid review ID format")
	}
	return mongotx.StorageError("review", err)
}
