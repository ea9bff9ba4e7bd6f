package main

import (
	appointmentRepository "barberbook/internal/appointments/repository"
	barberRepository "barberbook/internal/barbers/repository"
	"barberbook/internal/events"
	"barberbook/internal/ratings"
	reviewHandler "barberbook/internal/reviews/handler"
	reviewRepository "barberbook/internal/reviews/repository"
	reviewService "barberbook/internal/reviews/service"
	reviewValidator "barberbook/internal/reviews/validator"
	"barberbook/pkg/app"
	"barberbook/pkg/config"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Reviews service")
	serverApp := app.NewApplication(cfg)

	publisher, err := events.NewPublisherFromConfig(cfg, serverApp.Metrics(), ServiceName, events.ReviewStream)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	serverApp.OnShutdown(publisher.Close)

	reviews := reviewRepository.NewMongoReviewRepository(cfg)
	aggregator := ratings.NewAggregator(
		reviews,
		barberRepository.NewMongoBarberRepository(cfg),
		serverApp.Metrics(),
		cfg.Log,
	)
	service := reviewService.NewReviewService(
		reviews,
		appointmentRepository.NewMongoAppointmentRepository(cfg),
		aggregator,
		publisher,
		reviewValidator.NewReviewValidator(cfg.Log),
		cfg,
	)
	cfg.Log.Info("Review service initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(reviewHandler.NewReviewHandler(service, cfg.Log))
	serverApp.Run()
}
