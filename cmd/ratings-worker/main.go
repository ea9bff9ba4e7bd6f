package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	barberRepository "barberbook/internal/barbers/repository"
	"barberbook/internal/ratings"
	reviewRepository "barberbook/internal/reviews/repository"
	"barberbook/pkg/config"
	"barberbook/pkg/kafka"
	kafka_config "barberbook/pkg/kafka/config"
	kafka_middleware "barberbook/pkg/kafka/middleware"
	"barberbook/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const WorkerName = "ratings-worker"

// Replays review events into barber rating aggregates. Every event triggers
// a full recompute, so redelivery is harmless.
func main() {
	cfg := config.Load(WorkerName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	m := metrics.New(prometheus.DefaultRegisterer)
	aggregator := ratings.NewAggregator(
		reviewRepository.NewMongoReviewRepository(cfg),
		barberRepository.NewMongoBarberRepository(cfg),
		m,
		cfg.Log,
	)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.ReviewsTopic,
		cfg.RatingsGroupID,
		kafka.DLQTopic(cfg.ReviewsTopic),
		aggregator.EventHandler(),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(m))
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Metrics server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Consuming review events", "topic", cfg.ReviewsTopic, "group_id", cfg.RatingsGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Metrics server shutdown failed", "error", err)
	}
	cfg.Log.Info("Ratings worker stopped")
}
