package repository

import (
	"context"
	"time"

	appointmentserrors "barberbook/internal/appointments/errors"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	"barberbook/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Appointment_locks"

// AppointmentLockRepository provides operations for advisory locks
type AppointmentLockRepository interface {
	// Create inserts the lock under a fresh holder token. Returns a duplicate
	// key error if the lock is already held.
	Create(ctx context.Context, lock *model.AppointmentLock) (*model.AppointmentLock, error)
	// Confirm writes to the lock inside the caller's transaction, failing with
	// ErrLockLost when the lock no longer belongs to this holder. The write
	// makes a concurrent takeover of the same lock a write conflict.
	Confirm(ctx context.Context, lock *model.AppointmentLock) error
	// Release deletes the lock only while it still carries the holder's token.
	Release(ctx context.Context, lock *model.AppointmentLock) error
	// DeleteExpired removes the lock only if it expired before now. The TTL
	// monitor runs about once a minute, so stale locks can outlive expires_at.
	DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error)
}

type mongoAppointmentLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewAppointmentLockRepository(cfg *config.Config) AppointmentLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoAppointmentLockRepository) Create(ctx context.Context, lock *model.AppointmentLock) (*model.AppointmentLock, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.Token = uuid.NewString()
	lock.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

func (r *mongoAppointmentLockRepository) Confirm(ctx context.Context, lock *model.AppointmentLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": lock.ID, "token": lock.Token},
		bson.M{"$set": bson.M{"confirmed_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return appointmentserrors.ErrLockLost
	}
	return nil
}

func (r *mongoAppointmentLockRepository) Release(ctx context.Context, lock *model.AppointmentLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "token": lock.Token})
	return err
}

func (r *mongoAppointmentLockRepository) DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lockID,
		"expires_at": bson.M{"$lt": now},
	})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
