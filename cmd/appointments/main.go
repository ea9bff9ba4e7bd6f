package main

import (
	appointmentHandler "barberbook/internal/appointments/handler"
	appointmentRepository "barberbook/internal/appointments/repository"
	appointmentService "barberbook/internal/appointments/service"
	appointmentValidator "barberbook/internal/appointments/validator"
	"barberbook/internal/availability/cache"
	availabilityHandler "barberbook/internal/availability/handler"
	availabilityRepository "barberbook/internal/availability/repository"
	availabilityService "barberbook/internal/availability/service"
	availabilityValidator "barberbook/internal/availability/validator"
	barberRepository "barberbook/internal/barbers/repository"
	"barberbook/internal/events"
	"barberbook/pkg/app"
	"barberbook/pkg/config"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Appointments service")
	serverApp := app.NewApplication(cfg)

	publisher, err := events.NewPublisherFromConfig(cfg, serverApp.Metrics(), ServiceName, events.AppointmentStream)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	serverApp.OnShutdown(publisher.Close)

	barbers := barberRepository.NewMongoBarberRepository(cfg)
	offerings := barberRepository.NewMongoServiceOfferingRepository(cfg)
	windows := availabilityRepository.NewMongoWorkingWindowRepository(cfg)
	appointments := appointmentRepository.NewMongoAppointmentRepository(cfg)
	locks := appointmentRepository.NewAppointmentLockRepository(cfg)
	slots := cache.NewRedisSlotCache(cfg.Client.Redis, cfg.SlotCacheTTL)

	bookingService := appointmentService.NewAppointmentService(
		appointments,
		locks,
		barbers,
		offerings,
		windows,
		slots,
		publisher,
		appointmentValidator.NewAppointmentValidator(cfg.Log),
		serverApp.Metrics(),
		cfg,
	)
	scheduleService := availabilityService.NewAvailabilityService(
		windows,
		appointments,
		barbers,
		offerings,
		slots,
		availabilityValidator.NewWindowValidator(cfg.Log),
		serverApp.Metrics(),
		cfg,
	)
	cfg.Log.Info("Appointment services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		appointmentHandler.NewAppointmentHandler(bookingService, cfg.Log),
		availabilityHandler.NewAvailabilityHandler(scheduleService, cfg.Log),
	)
	serverApp.Run()
}
