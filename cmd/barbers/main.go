package main

import (
	barberHandler "barberbook/internal/barbers/handler"
	barberRepository "barberbook/internal/barbers/repository"
	barberService "barberbook/internal/barbers/service"
	barberValidator "barberbook/internal/barbers/validator"
	favoriteHandler "barberbook/internal/favorites/handler"
	favoriteRepository "barberbook/internal/favorites/repository"
	favoriteService "barberbook/internal/favorites/service"
	"barberbook/pkg/app"
	"barberbook/pkg/config"
)

const ServiceName = "barbers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Barbers service")
	barbers, favorites := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		barberHandler.NewBarberHandler(barbers, cfg.Log),
		favoriteHandler.NewFavoriteHandler(favorites, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (barberService.BarberService, favoriteService.FavoriteService) {
	barberRepo := barberRepository.NewMongoBarberRepository(cfg)
	offeringRepo := barberRepository.NewMongoServiceOfferingRepository(cfg)
	barbers := barberService.NewBarberService(
		barberRepo,
		offeringRepo,
		barberValidator.NewBarberValidator(cfg.Log),
		cfg,
	)
	favorites := favoriteService.NewFavoriteService(
		favoriteRepository.NewMongoFavoriteRepository(cfg),
		barberRepo,
		cfg,
	)

	cfg.Log.Info("Barber services initialized", "database", cfg.MongoDatabaseName)
	return barbers, favorites
}
