package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/internal/barbers/repository"
	"barberbook/internal/barbers/validator"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
	"barberbook/pkg/sanitizer"
	"barberbook/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type BarberService interface {
	Create(ctx context.Context, barber *model.Barber, actor model.Actor) error
	GetByID(ctx context.Context, id string) (*model.Barber, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Barber, int64, error)
	Update(ctx context.Context, id string, updates *model.BarberUpdate, actor model.Actor) (*model.Barber, error)
	Delete(ctx context.Context, id string, actor model.Actor) error

	AddService(ctx context.Context, barberID string, offering *model.ServiceOffering, actor model.Actor) error
	ListServices(ctx context.Context, barberID string) ([]*model.ServiceOffering, error)
	GetService(ctx context.Context, barberID, serviceID string) (*model.ServiceOffering, error)
	UpdateService(ctx context.Context, barberID, serviceID string, updates *model.ServiceOfferingUpdate, actor model.Actor) (*model.ServiceOffering, error)
	DeleteService(ctx context.Context, barberID, serviceID string, actor model.Actor) error
}

type barberService struct {
	repo      repository.BarberRepository
	offerings repository.ServiceOfferingRepository
	validator *validator.BarberValidator
	cfg       *config.Config
}

func NewBarberService(
	repo repository.BarberRepository,
	offerings repository.ServiceOfferingRepository,
	validator *validator.BarberValidator,
	cfg *config.Config,
) BarberService {
	return &barberService{
		repo:      repo,
		offerings: offerings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *barberService) Create(ctx context.Context, barber *model.Barber, actor model.Actor) error {
	if actor.Role != model.RoleProvider {
		return apperrors.Forbidden("Only providers can create barber profiles")
	}

	s.sanitize(barber)
	barber.ID = ""
	barber.Rating = 0
	barber.ReviewCount = 0

	if err := s.validator.Validate(barber); err != nil {
		s.cfg.Log.Warn("Barber validation failed",
			"name", barber.Name,
			"email", barber.Email,
			"error", err,
		)
		return validation.AsAppError("Barber validation failed", err)
	}

	if err := s.repo.Create(ctx, barber); err != nil {
		if errors.Is(err, barberserrors.ErrEmailTaken) {
			return apperrors.Conflict(fmt.Sprintf("A barber with email %s already exists", barber.Email))
		}
		s.cfg.Log.Error("Failed to create barber",
			"name", barber.Name,
			"error", err,
		)
		return mongotx.StorageError("create barber", err)
	}

	s.cfg.Log.Info("Barber created successfully",
		"id", barber.ID,
		"name", barber.Name,
	)
	return nil
}

func (s *barberService) GetByID(ctx context.Context, id string) (*model.Barber, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Barber ID cannot be empty")
	}

	barber, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.barberError(id, err)
	}
	return barber, nil
}

func (s *barberService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Barber, int64, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = sanitizer.Clamp(limit, 1, maxPageSize)
	if offset < 0 {
		offset = 0
	}

	var count int64
	var barbers []*model.Barber
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count barbers", "error", err)
			errCount = mongotx.StorageError("count barbers", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		barbers, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all barbers",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = mongotx.StorageError("list barbers", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return barbers, count, nil
}

func (s *barberService) Update(ctx context.Context, id string, updates *model.BarberUpdate, actor model.Actor) (*model.Barber, error) {
	if err := requireOwner(id, actor); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.barberError(id, err)
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validation.AsAppError("Barber validation failed", err)
	}

	merged := mergeBarberUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Barber validation failed",
			"id", id,
			"error", err,
		)
		return nil, validation.AsAppError("Barber validation failed", err)
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, barberserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict(fmt.Sprintf("A barber with email %s already exists", merged.Email))
		}
		s.cfg.Log.Error("Failed to update barber",
			"id", id,
			"error", err,
		)
		return nil, s.barberError(id, err)
	}

	s.cfg.Log.Info("Barber updated successfully",
		"id", id,
		"name", merged.Name,
	)
	return merged, nil
}

// Delete removes the profile together with its service offerings.
// Appointments and reviews stay as history.
func (s *barberService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if err := requireOwner(id, actor); err != nil {
		return err
	}

	var removed int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return err
		}
		n, err := s.offerings.DeleteByBarber(sessCtx, id)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete barber",
			"id", id,
			"error", err,
		)
		return s.barberError(id, err)
	}

	s.cfg.Log.Info("Barber deleted successfully",
		"id", id,
		"services_removed", removed,
	)
	return nil
}

func (s *barberService) AddService(ctx context.Context, barberID string, offering *model.ServiceOffering, actor model.Actor) error {
	if err := requireOwner(barberID, actor); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, barberID); err != nil {
		return s.barberError(barberID, err)
	}

	offering.ID = ""
	offering.BarberID = barberID
	offering.Name = sanitizer.NormalizeName(offering.Name)
	offering.Description = sanitizer.NormalizeComment(offering.Description)

	if err := s.validator.ValidateOffering(offering); err != nil {
		return validation.AsAppError("Service validation failed", err)
	}

	if err := s.offerings.Create(ctx, offering); err != nil {
		s.cfg.Log.Error("Failed to create service offering",
			"barber_id", barberID,
			"error", err,
		)
		return mongotx.StorageError("create service offering", err)
	}

	s.cfg.Log.Info("Service offering created",
		"id", offering.ID,
		"barber_id", barberID,
		"duration_minutes", offering.DurationMinutes,
	)
	return nil
}

func (s *barberService) ListServices(ctx context.Context, barberID string) ([]*model.ServiceOffering, error) {
	if _, err := s.GetByID(ctx, barberID); err != nil {
		return nil, err
	}

	offerings, err := s.offerings.FindByBarber(ctx, barberID)
	if err != nil {
		return nil, mongotx.StorageError("list service offerings", err)
	}
	return offerings, nil
}

func (s *barberService) GetService(ctx context.Context, barberID, serviceID string) (*model.ServiceOffering, error) {
	offering, err := s.offerings.FindByID(ctx, serviceID)
	if err != nil {
		return nil, offeringError(serviceID, err)
	}
	if offering.BarberID != barberID {
		return nil, apperrors.NotFoundWithID("Service", serviceID)
	}
	return offering, nil
}

func (s *barberService) UpdateService(ctx context.Context, barberID, serviceID string, updates *model.ServiceOfferingUpdate, actor model.Actor) (*model.ServiceOffering, error) {
	if err := requireOwner(barberID, actor); err != nil {
		return nil, err
	}

	existing, err := s.GetService(ctx, barberID, serviceID)
	if err != nil {
		return nil, err
	}

	updates.Name = sanitizer.NormalizeName(updates.Name)
	if updates.Description != nil {
		desc := sanitizer.NormalizeComment(*updates.Description)
		updates.Description = &desc
	}
	if err := s.validator.ValidateOfferingUpdate(updates); err != nil {
		return nil, validation.AsAppError("Service validation failed", err)
	}

	merged := mergeOfferingUpdates(existing, updates)
	if err := s.validator.ValidateOffering(merged); err != nil {
		return nil, validation.AsAppError("Service validation failed", err)
	}

	if err := s.offerings.Update(ctx, serviceID, merged); err != nil {
		return nil, offeringError(serviceID, err)
	}

	s.cfg.Log.Info("Service offering updated",
		"id", serviceID,
		"barber_id", barberID,
	)
	return merged, nil
}

// DeleteService removes an offering. Existing appointments keep their
// snapshot of it.
func (s *barberService) DeleteService(ctx context.Context, barberID, serviceID string, actor model.Actor) error {
	if err := requireOwner(barberID, actor); err != nil {
		return err
	}
	if _, err := s.GetService(ctx, barberID, serviceID); err != nil {
		return err
	}

	if err := s.offerings.Delete(ctx, serviceID); err != nil {
		return offeringError(serviceID, err)
	}

	s.cfg.Log.Info("Service offering deleted",
		"id", serviceID,
		"barber_id", barberID,
	)
	return nil
}

func (s *barberService) sanitize(barber *model.Barber) {
	barber.Name = sanitizer.NormalizeName(barber.Name)
	barber.Email = sanitizer.NormalizeEmail(barber.Email)
	barber.Phone = normalizePhone(barber.Phone)
	barber.Location = sanitizer.NormalizeName(barber.Location)
	barber.Specialization = sanitizer.NormalizeLabel(barber.Specialization)
	barber.Description = sanitizer.NormalizeComment(barber.Description)
}

func (s *barberService) sanitizeUpdate(updates *model.BarberUpdate) {
	updates.Name = sanitizer.NormalizeName(updates.Name)
	updates.Email = sanitizer.NormalizeEmail(updates.Email)
	if updates.Phone != nil {
		phone := normalizePhone(*updates.Phone)
		updates.Phone = &phone
	}
	if updates.Location != nil {
		location := sanitizer.NormalizeName(*updates.Location)
		updates.Location = &location
	}
	if updates.Specialization != nil {
		specialization := sanitizer.NormalizeLabel(*updates.Specialization)
		updates.Specialization = &specialization
	}
	if updates.Description != nil {
		description := sanitizer.NormalizeComment(*updates.Description)
		updates.Description = &description
	}
}

// normalizePhone keeps the raw input when it cannot be normalized so the
// validator reports it instead of silently dropping it.
func normalizePhone(phone string) string {
	if normalized := sanitizer.NormalizePhone(phone); normalized != "" {
		return normalized
	}
	return sanitizer.TrimAndNormalize(phone)
}

func mergeBarberUpdates(existing *model.Barber, updates *model.BarberUpdate) *model.Barber {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Specialization != nil {
		merged.Specialization = *updates.Specialization
	}
	if updates.ExperienceYears != nil {
		merged.ExperienceYears = *updates.ExperienceYears
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}

func mergeOfferingUpdates(existing *model.ServiceOffering, updates *model.ServiceOfferingUpdate) *model.ServiceOffering {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.DurationMinutes != nil {
		merged.DurationMinutes = *updates.DurationMinutes
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}

func requireOwner(barberID string, actor model.Actor) error {
	if barberID == "" {
		return apperrors.InvalidInput("Barber ID cannot be empty")
	}
	if actor.Role != model.RoleProvider || actor.UserID != barberID {
		return apperrors.Forbidden("Barbers can only manage their own profile")
	}
	return nil
}

func (s *barberService) barberError(id string, err error) error {
	switch {
	case errors.Is(err, barberserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Barber", id)
	case errors.Is(err, barberserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid barber ID format")
	}
	s.cfg.Log.Error("Barber storage operation failed", "id", id, "error", err)
	return mongotx.StorageError("barber", err)
}

func offeringError(id string, err error) error {
	switch {
	case errors.Is(err, barberserrors.ErrServiceNotFound):
		return apperrors.NotFoundWithID("Service", id)
	case errors.Is(err, barberserrors.ErrInvalidServiceID):
		return apperrors.InvalidInput("Invalid service ID format")
	}
	return mongotx.StorageError("service offering", err)
}
