package service

import (
	"context"
	"errors"
	"sync"

	barberserrors "barberbook/internal/barbers/errors"
	favoriteserrors "barberbook/internal/favorites/errors"
	"barberbook/internal/favorites/repository"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
)

type FavoriteService interface {
	Add(ctx context.Context, customerID, barberID string, actor model.Actor) (*model.Favorite, error)
	Remove(ctx context.Context, customerID, barberID string, actor model.Actor) error
	List(ctx context.Context, customerID string, actor model.Actor, limit int, offset int64) ([]*model.Favorite, int64, error)
	IsFavorite(ctx context.Context, customerID, barberID string, actor model.Actor) (bool, error)
}

type BarberReader interface {
	FindByID(ctx context.Context, id string) (*model.Barber, error)
}

type favoriteService struct {
	repo    repository.FavoriteRepository
	barbers BarberReader
	cfg     *config.Config
}

func NewFavoriteService(repo repository.FavoriteRepository, barbers BarberReader, cfg *config.Config) FavoriteService {
	return &favoriteService{
		repo:    repo,
		barbers: barbers,
		cfg:     cfg,
	}
}

func (s *favoriteService) Add(ctx context.Context, customerID, barberID string, actor model.Actor) (*model.Favorite, error) {
	if err := requirePair(customerID, barberID, actor); err != nil {
		return nil, err
	}

	if _, err := s.barbers.FindByID(ctx, barberID); err != nil {
		switch {
		case errors.Is(err, barberserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Barber", barberID)
		case errors.Is(err, barberserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid barber ID format")
		}
		return nil, mongotx.StorageError("load barber", err)
	}

	favorite := &model.Favorite{CustomerID: customerID, BarberID: barberID}
	if err := s.repo.Create(ctx, favorite); err != nil {
		if errors.Is(err, favoriteserrors.ErrAlreadyExists) {
			return nil, apperrors.Conflict("Barber is already in favorites")
		}
		s.cfg.Log.Error("Failed to add favorite",
			"customer_id", customerID,
			"barber_id", barberID,
			"error", err,
		)
		return nil, mongotx.StorageError("add favorite", err)
	}

	s.cfg.Log.Info("Favorite added",
		"customer_id", customerID,
		"barber_id", barberID,
	)
	return favorite, nil
}

func (s *favoriteService) Remove(ctx context.Context, customerID, barberID string, actor model.Actor) error {
	if err := requirePair(customerID, barberID, actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, customerID, barberID); err != nil {
		if errors.Is(err, favoriteserrors.ErrNotFound) {
			return apperrors.NotFound("Favorite")
		}
		return mongotx.StorageError("remove favorite", err)
	}
	return nil
}

func (s *favoriteService) List(ctx context.Context, customerID string, actor model.Actor, limit int, offset int64) ([]*model.Favorite, int64, error) {
	if err := requireCustomer(customerID, actor); err != nil {
		return nil, 0, err
	}

	var count int64
	var favorites []*model.Favorite
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByCustomer(ctx, customerID)
		if err != nil {
			errCount = mongotx.StorageError("count favorites", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		favorites, err = s.repo.FindByCustomer(ctx, customerID, limit, offset)
		if err != nil {
			errFind = mongotx.StorageError("list favorites", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return favorites, count, nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, customerID, barberID string, actor model.Actor) (bool, error) {
	if err := requirePair(customerID, barberID, actor); err != nil {
		return false, err
	}

	ok, err := s.repo.Exists(ctx, customerID, barberID)
	if err != nil {
		return false, mongotx.StorageError("check favorite", err)
	}
	return ok, nil
}

func requirePair(customerID, barberID string, actor model.Actor) error {
	if barberID == "" {
		return apperrors.InvalidInput("Barber ID cannot be empty")
	}
	return requireCustomer(customerID, actor)
}

func requireCustomer(customerID string, actor model.Actor) error {
	if customerID == "" {
		return apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if actor.Role != model.RoleCustomer || actor.UserID != customerID {
		return apperrors.Forbidden("Customers can only manage their own favorites")
	}
	return nil
}
