package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appointmentserrors "barberbook/internal/appointments/errors"
	"barberbook/internal/appointments/repository"
	"barberbook/internal/appointments/validator"
	"barberbook/internal/availability/cache"
	availabilityerrors "barberbook/internal/availability/errors"
	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/internal/events"
	"barberbook/pkg/availability"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/lifecycle"
	"barberbook/pkg/metrics"
	"barberbook/pkg/model"
	"barberbook/pkg/sanitizer"
	"barberbook/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const defaultLockTTL = 30 * time.Second

type AppointmentService interface {
	Create(ctx context.Context, req *model.AppointmentRequest, actor model.Actor) (*model.Appointment, error)
	GetByID(ctx context.Context, id string, actor model.Actor) (*model.Appointment, error)
	ListByCustomer(ctx context.Context, customerID string, actor model.Actor, limit int, offset int64) ([]*model.Appointment, int64, error)
	ListByBarber(ctx context.Context, barberID, date string, actor model.Actor, limit int, offset int64) ([]*model.Appointment, int64, error)
	Transition(ctx context.Context, id string, target model.AppointmentStatus, actor model.Actor) (*model.Appointment, error)
	Cancel(ctx context.Context, id string, actor model.Actor) (*model.Appointment, error)
}

type BarberReader interface {
	FindByID(ctx context.Context, id string) (*model.Barber, error)
}

type OfferingReader interface {
	FindByID(ctx context.Context, id string) (*model.ServiceOffering, error)
}

type WindowReader interface {
	FindByBarberAndDate(ctx context.Context, barberID, date string) (*model.WorkingWindow, error)
}

type appointmentService struct {
	repo      repository.AppointmentRepository
	lockRepo  repository.AppointmentLockRepository
	barbers   BarberReader
	offerings OfferingReader
	windows   WindowReader
	slots     cache.SlotCache
	publisher events.Publisher
	validator *validator.AppointmentValidator
	fsm       *lifecycle.FSM
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	lockRepo repository.AppointmentLockRepository,
	barbers BarberReader,
	offerings OfferingReader,
	windows WindowReader,
	slots cache.SlotCache,
	publisher events.Publisher,
	validator *validator.AppointmentValidator,
	m *metrics.Metrics,
	cfg *config.Config,
) AppointmentService {
	if slots == nil {
		slots = cache.NewNoopSlotCache()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &appointmentService{
		repo:      repo,
		lockRepo:  lockRepo,
		barbers:   barbers,
		offerings: offerings,
		windows:   windows,
		slots:     slots,
		publisher: publisher,
		validator: validator,
		fsm:       lifecycle.New(cfg.Location),
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *appointmentService) Create(ctx context.Context, req *model.AppointmentRequest, actor model.Actor) (*model.Appointment, error) {
	if actor.Role != model.RoleCustomer {
		return nil, apperrors.Forbidden("Only customers can book appointments")
	}

	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Appointment request validation failed", "error", err)
		return nil, validation.AsAppError("Appointment validation failed", err)
	}

	barber, err := s.barbers.FindByID(ctx, req.BarberID)
	if err != nil {
		return nil, barberLookupError(req.BarberID, err)
	}

	offering, err := s.offerings.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, offeringLookupError(req.ServiceID, err)
	}
	if offering.BarberID != barber.ID {
		return nil, apperrors.NotFoundWithID("Service", req.ServiceID)
	}
	snapshot := offering.Snapshot()
	if snapshot.DurationMinutes <= 0 {
		return nil, apperrors.InvalidDuration("Service duration must be positive", availability.ErrInvalidDuration)
	}

	window, err := s.windows.FindByBarberAndDate(ctx, req.BarberID, req.Date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrWindowNotFound) {
			return nil, apperrors.InvalidWindow(fmt.Sprintf("Barber has no working hours on %s", req.Date), err)
		}
		return nil, mongotx.StorageError("load working window", err)
	}
	if !window.IsAvailable {
		return nil, apperrors.InvalidWindow(fmt.Sprintf("Barber is not available on %s", req.Date), nil)
	}

	now := s.now().UTC()
	startsAt, err := availability.StartsAt(req.Date, req.StartTime, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if startsAt.Before(now) {
		return nil, apperrors.Validation("Appointment must start in the future", map[string]any{
			"start_time": "must not be in the past",
		})
	}

	start, err := availability.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	fits, err := availability.FitsAt(window, start, snapshot.DurationMinutes, s.granularity())
	if err != nil {
		return nil, apperrors.InvalidWindow("Working window is malformed", err)
	}
	if !fits {
		return nil, apperrors.InvalidWindow(fmt.Sprintf("%s is not a bookable start time for this service", req.StartTime), nil)
	}

	candidate := availability.NewInterval(start, snapshot.DurationMinutes)

	appt := &model.Appointment{
		BarberID:        req.BarberID,
		CustomerID:      actor.UserID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: snapshot.DurationMinutes,
		Status:          model.StatusPending,
		Service:         snapshot,
		BarberName:      barber.Name,
		CustomerName:    req.CustomerName,
		CreatedAt:       now.Truncate(time.Millisecond),
		UpdatedAt:       now.Truncate(time.Millisecond),
	}
	if err := s.validator.Validate(appt); err != nil {
		s.cfg.Log.Warn("Appointment validation failed", "error", err)
		return nil, validation.AsAppError("Appointment validation failed", err)
	}

	// Serialise creators for this barber and date
	lock, err := s.acquireSlotLock(ctx, appt.BarberID, appt.Date)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeSlotConflict) {
			s.metrics.SlotConflicts.Inc()
		}
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(context.WithoutCancel(ctx), lock); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release appointment lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.confirmSlotLock(sessCtx, lock); err != nil {
			return err
		}
		if err := s.verifyFree(sessCtx, appt, candidate); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, appt); err != nil {
			return mongotx.StorageError("create appointment", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeSlotConflict) {
			s.metrics.SlotConflicts.Inc()
			s.cfg.Log.Info("Appointment slot taken",
				"barber_id", appt.BarberID,
				"date", appt.Date,
				"start_time", appt.StartTime,
			)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create appointment", "error", err)
		return nil, mongotx.StorageError("create appointment", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	s.cfg.Log.Info("Appointment created successfully",
		"id", appt.ID,
		"barber_id", appt.BarberID,
		"customer_id", appt.CustomerID,
		"date", appt.Date,
		"start_time", appt.StartTime,
	)

	s.afterChange(ctx, appt, events.NewAppointmentEvent(events.AppointmentCreated, appt, "", actor.Role))
	return appt, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string, actor model.Actor) (*model.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(appt, actor); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *appointmentService) ListByCustomer(ctx context.Context, customerID string, actor model.Actor, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if actor.Role != model.RoleCustomer || actor.UserID != customerID {
		return nil, 0, apperrors.Forbidden("Customers can only list their own appointments")
	}

	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByCustomer(ctx, customerID) },
		func(ctx context.Context) ([]*model.Appointment, error) {
			return s.repo.FindByCustomer(ctx, customerID, limit, offset)
		},
	)
}

func (s *appointmentService) ListByBarber(ctx context.Context, barberID, date string, actor model.Actor, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if barberID == "" {
		return nil, 0, apperrors.InvalidInput("Barber ID cannot be empty")
	}
	if date != "" && !availability.ValidDate(date) {
		return nil, 0, apperrors.InvalidInput("invalid date parameter, must be YYYY-MM-DD")
	}
	if actor.Role != model.RoleProvider || actor.UserID != barberID {
		return nil, 0, apperrors.Forbidden("Barbers can only list their own appointments")
	}

	return s.list(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByBarber(ctx, barberID, date) },
		func(ctx context.Context) ([]*model.Appointment, error) {
			return s.repo.FindByBarber(ctx, barberID, date, limit, offset)
		},
	)
}

func (s *appointmentService) list(
	ctx context.Context,
	countFn func(context.Context) (int64, error),
	findFn func(context.Context) ([]*model.Appointment, error),
) ([]*model.Appointment, int64, error) {
	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = countFn(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count appointments", "error", errCount)
			errCount = mongotx.StorageError("count appointments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		appointments, errFind = findFn(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list appointments", "error", errFind)
			errFind = mongotx.StorageError("list appointments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

func (s *appointmentService) Transition(ctx context.Context, id string, target model.AppointmentStatus, actor model.Actor) (*model.Appointment, error) {
	if !target.Valid() {
		return nil, apperrors.Validation("Invalid target status", map[string]any{
			"status": fmt.Sprintf("must be one of: %s %s %s %s", model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled),
		})
	}

	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(appt, actor); err != nil {
		return nil, err
	}

	next, err := s.fsm.Transition(appt, target, actor.Role, s.now())
	if err != nil {
		s.cfg.Log.Info("Appointment transition rejected",
			"id", id,
			"from", appt.Status,
			"to", target,
			"role", actor.Role,
			"error", err,
		)
		return nil, apperrors.InvalidTransition(err.Error(), err)
	}
	next.UpdatedAt = next.UpdatedAt.Truncate(time.Millisecond)

	if err := s.repo.UpdateStatus(ctx, id, appt.Status, next.Status, next.UpdatedAt); err != nil {
		if errors.Is(err, appointmentserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict("Appointment changed concurrently, reload and try again")
		}
		s.cfg.Log.Error("Failed to update appointment status", "id", id, "error", err)
		return nil, mongotx.StorageError("update appointment status", err)
	}

	s.metrics.Transitions.WithLabelValues(string(appt.Status), string(next.Status)).Inc()
	s.cfg.Log.Info("Appointment status changed",
		"id", id,
		"from", appt.Status,
		"to", next.Status,
		"role", actor.Role,
	)

	s.afterChange(ctx, next, events.NewAppointmentEvent(events.AppointmentStatusChanged, next, appt.Status, actor.Role))
	return next, nil
}

func (s *appointmentService) Cancel(ctx context.Context, id string, actor model.Actor) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.StatusCancelled, actor)
}

// --- Helpers ---

func (s *appointmentService) load(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appointmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, mongotx.StorageError("retrieve appointment", err)
	}
	return appt, nil
}

// checkOwnership allows the booking customer and the appointment's barber.
func checkOwnership(appt *model.Appointment, actor model.Actor) error {
	switch actor.Role {
	case model.RoleCustomer:
		if appt.CustomerID == actor.UserID {
			return nil
		}
	case model.RoleProvider:
		if appt.BarberID == actor.UserID {
			return nil
		}
	}
	return apperrors.Forbidden("Appointment belongs to another user")
}

func (s *appointmentService) verifyFree(ctx context.Context, appt *model.Appointment, candidate availability.Interval) error {
	existing, err := s.repo.FindActiveByBarberAndDate(ctx, appt.BarberID, appt.Date)
	if err != nil {
		return mongotx.StorageError("check existing appointments", err)
	}
	if taken := availability.Conflicts(candidate, existing, appt.ID); taken != nil {
		return apperrors.SlotConflict(fmt.Sprintf(
			"The time %s was just booked, please choose another slot",
			appt.StartTime,
		))
	}
	return nil
}

// afterChange runs the best-effort side effects of a committed change.
func (s *appointmentService) afterChange(ctx context.Context, appt *model.Appointment, event events.AppointmentEvent) {
	if err := s.slots.Invalidate(ctx, appt.BarberID, appt.Date); err != nil {
		s.cfg.Log.Warn("Failed to invalidate slot cache",
			"barber_id", appt.BarberID,
			"date", appt.Date,
			"error", err,
		)
	}
	if err := s.publisher.PublishAppointment(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish appointment event",
			"id", appt.ID,
			"event_type", event.Type,
			"error", err,
		)
	}
}

func (s *appointmentService) granularity() int {
	if s.cfg.SlotGranularityMin > 0 {
		return s.cfg.SlotGranularityMin
	}
	return availability.DefaultGranularity
}

// acquireSlotLock creates an advisory lock for the barber's date. A lock that
// outlived its expiry is cleared once before giving up.
func (s *appointmentService) acquireSlotLock(ctx context.Context, barberID, date string) (*model.AppointmentLock, error) {
	lockID := fmt.Sprintf("appointment_lock_%s_%s", barberID, date)

	ttl := s.cfg.SlotLockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	for attempt := 0; attempt < 2; attempt++ {
		now := s.now().UTC()
		lock, err := s.lockRepo.Create(ctx, &model.AppointmentLock{
			ID:        lockID,
			ExpiresAt: now.Add(ttl),
		})
		if err == nil {
			return lock, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, mongotx.StorageError("acquire appointment lock", err)
		}
		if attempt > 0 {
			break
		}

		cleared, err := s.lockRepo.DeleteExpired(ctx, lockID, now)
		if err != nil {
			return nil, mongotx.StorageError("clear expired appointment lock", err)
		}
		if !cleared {
			break
		}
		s.cfg.Log.Warn("Cleared expired appointment lock", "lock_id", lockID)
	}

	return nil, apperrors.SlotConflict("This time is currently being booked by another request, please try again")
}

// confirmSlotLock fails the transaction when the lock expired and another
// request took it over, so a slow holder never inserts alongside the new one.
func (s *appointmentService) confirmSlotLock(ctx context.Context, lock *model.AppointmentLock) error {
	err := s.lockRepo.Confirm(ctx, lock)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, appointmentserrors.ErrLockLost):
		s.cfg.Log.Warn("Appointment lock taken over before commit", "lock_id", lock.ID)
		return apperrors.SlotConflict("This time is currently being booked by another request, please try again")
	}
	return mongotx.StorageError("confirm appointment lock", err)
}

func barberLookupError(id string, err error) error {
	switch {
	case errors.Is(err, barberserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Barber", id)
	case errors.Is(err, barberserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid barber ID format")
	}
	return mongotx.StorageError("load barber", err)
}

func offeringLookupError(id string, err error) error {
	switch {
	case errors.Is(err, barberserrors.ErrServiceNotFound):
		return apperrors.NotFoundWithID("Service", id)
	case errors.Is(err, barberserrors.ErrInvalidServiceID):
		return apperrors.InvalidInput("Invalid service ID format")
	}
	return mongotx.StorageError("load service offering", err)
}
