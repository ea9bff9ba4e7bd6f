package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barberbook/internal/availability/cache"
	availabilityerrors "barberbook/internal/availability/errors"
	"barberbook/internal/availability/repository"
	"barberbook/internal/availability/validator"
	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/pkg/availability"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/metrics"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"
)

type AvailabilityService interface {
	SetWindow(ctx context.Context, window *model.WorkingWindow, actor model.Actor) (*model.WorkingWindow, error)
	SetWindows(ctx context.Context, barberID string, windows []*model.WorkingWindow, actor model.Actor) ([]*model.WorkingWindow, error)
	GetWindow(ctx context.Context, barberID, date string) (*model.WorkingWindow, error)
	ListWindows(ctx context.Context, barberID, from, to string) ([]*model.WorkingWindow, error)
	AvailableSlots(ctx context.Context, query SlotQuery) (*model.AvailableSlots, error)
}

// SlotQuery asks for the free start times of one barber on one date. The
// duration comes from ServiceID when set, otherwise from DurationMinutes.
type SlotQuery struct {
	BarberID        string
	Date            string
	ServiceID       string
	DurationMinutes int
}

type AppointmentReader interface {
	FindActiveByBarberAndDate(ctx context.Context, barberID, date string) ([]*model.Appointment, error)
}

type BarberReader interface {
	FindByID(ctx context.Context, id string) (*model.Barber, error)
}

type OfferingReader interface {
	FindByID(ctx context.Context, id string) (*model.ServiceOffering, error)
}

type availabilityService struct {
	windows      repository.WorkingWindowRepository
	appointments AppointmentReader
	barbers      BarberReader
	offerings    OfferingReader
	slots        cache.SlotCache
	validator    *validator.WindowValidator
	metrics      *metrics.Metrics
	cfg          *config.Config
	now          func() time.Time
}

func NewAvailabilityService(
	windows repository.WorkingWindowRepository,
	appointments AppointmentReader,
	barbers BarberReader,
	offerings OfferingReader,
	slots cache.SlotCache,
	validator *validator.WindowValidator,
	m *metrics.Metrics,
	cfg *config.Config,
) AvailabilityService {
	if slots == nil {
		slots = cache.NewNoopSlotCache()
	}
	return &availabilityService{
		windows:      windows,
		appointments: appointments,
		barbers:      barbers,
		offerings:    offerings,
		slots:        slots,
		validator:    validator,
		metrics:      m,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *availabilityService) SetWindow(ctx context.Context, window *model.WorkingWindow, actor model.Actor) (*model.WorkingWindow, error) {
	if err := requireOwner(window.BarberID, actor); err != nil {
		return nil, err
	}
	if err := s.check(window); err != nil {
		return nil, err
	}

	window.ID = ""
	window.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	if err := s.windows.Upsert(ctx, window); err != nil {
		s.cfg.Log.Error("Failed to save working window", "barber_id", window.BarberID, "date", window.Date, "error", err)
		return nil, mongotx.StorageError("save working window", err)
	}

	s.invalidate(ctx, window.BarberID, window.Date)
	s.cfg.Log.Info("Working window saved",
		"barber_id", window.BarberID,
		"date", window.Date,
		"is_available", window.IsAvailable,
	)
	return window, nil
}

func (s *availabilityService) SetWindows(ctx context.Context, barberID string, windows []*model.WorkingWindow, actor model.Actor) ([]*model.WorkingWindow, error) {
	if err := requireOwner(barberID, actor); err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, apperrors.InvalidInput("At least one working window is required")
	}
	if len(windows) > validator.MaxWindowsPerRequest {
		return nil, apperrors.InvalidInput(fmt.Sprintf("At most %d working windows per request", validator.MaxWindowsPerRequest))
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	seen := make(map[string]struct{}, len(windows))
	for _, w := range windows {
		if w == nil {
			return nil, apperrors.InvalidInput("Working window cannot be null")
		}
		w.ID = ""
		w.BarberID = barberID
		if err := s.check(w); err != nil {
			return nil, err
		}
		if _, dup := seen[w.Date]; dup {
			return nil, apperrors.InvalidInput("Duplicate date in request: " + w.Date)
		}
		seen[w.Date] = struct{}{}
		w.UpdatedAt = now
	}

	if err := s.windows.UpsertMany(ctx, windows); err != nil {
		s.cfg.Log.Error("Failed to save working windows", "barber_id", barberID, "count", len(windows), "error", err)
		return nil, mongotx.StorageError("save working windows", err)
	}

	for _, w := range windows {
		s.invalidate(ctx, barberID, w.Date)
	}
	s.cfg.Log.Info("Working windows saved", "barber_id", barberID, "count", len(windows))
	return windows, nil
}

func (s *availabilityService) GetWindow(ctx context.Context, barberID, date string) (*model.WorkingWindow, error) {
	if barberID == "" {
		return nil, apperrors.InvalidInput("Barber ID cannot be empty")
	}
	if !availability.ValidDate(date) {
		return nil, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD")
	}

	window, err := s.windows.FindByBarberAndDate(ctx, barberID, date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrWindowNotFound) {
			return nil, apperrors.NotFound("Working window")
		}
		return nil, mongotx.StorageError("load working window", err)
	}
	return window, nil
}

func (s *availabilityService) ListWindows(ctx context.Context, barberID, from, to string) ([]*model.WorkingWindow, error) {
	if barberID == "" {
		return nil, apperrors.InvalidInput("Barber ID cannot be empty")
	}
	for name, v := range map[string]string{"from": from, "to": to} {
		if v != "" && !availability.ValidDate(v) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter, must be YYYY-MM-DD", name))
		}
	}
	if from != "" && to != "" && from > to {
		return nil, apperrors.InvalidInput("from must not be after to")
	}

	windows, err := s.windows.FindByBarberInRange(ctx, barberID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to list working windows", "barber_id", barberID, "error", err)
		return nil, mongotx.StorageError("list working windows", err)
	}
	return windows, nil
}

func (s *availabilityService) AvailableSlots(ctx context.Context, query SlotQuery) (*model.AvailableSlots, error) {
	if !availability.ValidDate(query.Date) {
		return nil, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD")
	}

	if _, err := s.barbers.FindByID(ctx, query.BarberID); err != nil {
		switch {
		case errors.Is(err, barberserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Barber", query.BarberID)
		case errors.Is(err, barberserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid barber ID format")
		}
		return nil, mongotx.StorageError("load barber", err)
	}

	duration, err := s.resolveDuration(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &model.AvailableSlots{
		BarberID:        query.BarberID,
		Date:            query.Date,
		DurationMinutes: duration,
		Slots:           []string{},
	}

	slots, err := s.cachedSlots(ctx, query.BarberID, query.Date, duration)
	if err != nil {
		return nil, err
	}
	result.Slots = s.dropPast(query.Date, slots)
	return result, nil
}

// --- Helpers ---

func (s *availabilityService) resolveDuration(ctx context.Context, query SlotQuery) (int, error) {
	if query.ServiceID == "" {
		if query.DurationMinutes <= 0 {
			return 0, apperrors.InvalidDuration("A positive duration or a service_id is required", availability.ErrInvalidDuration)
		}
		return query.DurationMinutes, nil
	}

	offering, err := s.offerings.FindByID(ctx, query.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, barberserrors.ErrServiceNotFound):
			return 0, apperrors.NotFoundWithID("Service", query.ServiceID)
		case errors.Is(err, barberserrors.ErrInvalidServiceID):
			return 0, apperrors.InvalidInput("Invalid service ID format")
		}
		return 0, mongotx.StorageError("load service offering", err)
	}
	if offering.BarberID != query.BarberID {
		return 0, apperrors.NotFoundWithID("Service", query.ServiceID)
	}
	if offering.DurationMinutes <= 0 {
		return 0, apperrors.InvalidDuration("Service duration must be positive", availability.ErrInvalidDuration)
	}
	return offering.DurationMinutes, nil
}

func (s *availabilityService) cachedSlots(ctx context.Context, barberID, date string, duration int) ([]string, error) {
	cached, generation, found, err := s.slots.Get(ctx, barberID, date, duration)
	cacheable := err == nil
	switch {
	case err != nil:
		s.metrics.SlotCacheLookups.WithLabelValues("error").Inc()
		s.cfg.Log.Warn("Slot cache read failed", "barber_id", barberID, "date", date, "error", err)
	case found:
		s.metrics.SlotCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		s.metrics.SlotCacheLookups.WithLabelValues("miss").Inc()
	}

	slots, err := s.compute(ctx, barberID, date, duration)
	if err != nil {
		return nil, err
	}

	// Without a generation the write could outlive an invalidation.
	if !cacheable {
		return slots, nil
	}
	if err := s.slots.Set(ctx, barberID, date, generation, duration, slots); err != nil {
		s.cfg.Log.Warn("Slot cache write failed", "barber_id", barberID, "date", date, "error", err)
	}
	return slots, nil
}

func (s *availabilityService) compute(ctx context.Context, barberID, date string, duration int) ([]string, error) {
	window, err := s.windows.FindByBarberAndDate(ctx, barberID, date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrWindowNotFound) {
			return []string{}, nil
		}
		return nil, mongotx.StorageError("load working window", err)
	}
	if !window.IsAvailable {
		return []string{}, nil
	}

	existing, err := s.appointments.FindActiveByBarberAndDate(ctx, barberID, date)
	if err != nil {
		return nil, mongotx.StorageError("load appointments", err)
	}

	slots, err := availability.ComputeAvailableSlots(window, existing, duration, s.granularity())
	if err != nil {
		if errors.Is(err, availability.ErrInvalidWindow) {
			s.cfg.Log.Error("Stored working window is malformed", "barber_id", barberID, "date", date, "error", err)
			return nil, apperrors.InvalidWindow("Working window is malformed", err)
		}
		return nil, apperrors.InvalidDuration(err.Error(), err)
	}
	return slots, nil
}

// dropPast removes start times that already passed when date is today.
func (s *availabilityService) dropPast(date string, slots []string) []string {
	now := s.now().In(s.location())
	today := now.Format(availability.DateLayout)
	switch {
	case date > today:
		return slots
	case date < today:
		return []string{}
	}

	minute := now.Hour()*60 + now.Minute()
	upcoming := make([]string, 0, len(slots))
	for _, slot := range slots {
		if m, err := availability.ParseClock(slot); err == nil && m > minute {
			upcoming = append(upcoming, slot)
		}
	}
	return upcoming
}

func (s *availabilityService) check(window *model.WorkingWindow) error {
	if err := s.validator.Validate(window); err != nil {
		s.cfg.Log.Warn("Working window validation failed", "error", err)
		return validation.AsAppError("Working window validation failed", err)
	}
	if window.IsAvailable {
		if _, _, err := availability.WindowBounds(window); err != nil {
			return apperrors.InvalidWindow(err.Error(), err)
		}
	}
	return nil
}

func (s *availabilityService) invalidate(ctx context.Context, barberID, date string) {
	if err := s.slots.Invalidate(ctx, barberID, date); err != nil {
		s.cfg.Log.Warn("Failed to invalidate slot cache", "barber_id", barberID, "date", date, "error", err)
	}
}

func (s *availabilityService) granularity() int {
	if s.cfg.SlotGranularityMin > 0 {
		return s.cfg.SlotGranularityMin
	}
	return availability.DefaultGranularity
}

func (s *availabilityService) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

func requireOwner(barberID string, actor model.Actor) error {
	if actor.Role != model.RoleProvider || actor.UserID != barberID {
		return apperrors.Forbidden("Only the barber can edit their working hours")
	}
	return nil
}
