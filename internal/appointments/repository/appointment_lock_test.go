package repository

import (
	"context"
	"os"
	"testing"
	"time"

	appointmentserrors "barberbook/internal/appointments/errors"
	"barberbook/pkg/config"
	"barberbook/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EnvMongoURI = "TEST_MONGO_URI"

func lockRepository(t *testing.T, uri string, writeTimeout time.Duration) *mongoAppointmentLockRepository {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("barberbook_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})
	return &mongoAppointmentLockRepository{
		cfg:        &config.Config{WriteTimeout: writeTimeout},
		collection: db.Collection(LockCollectionName),
	}
}

func TestLockRepository_BoundedByWriteTimeout(t *testing.T) {
	// Nothing listens here, so only the write timeout can end the call early.
	repo := lockRepository(t, "mongodb://127.0.0.1:1", 50*time.Millisecond)
	lock := &model.AppointmentLock{ID: "appointment_lock_b_d", ExpiresAt: time.Now().Add(time.Minute)}

	calls := map[string]func(ctx context.Context) error{
		"create": func(ctx context.Context) error {
			_, err := repo.Create(ctx, lock)
			return err
		},
		"confirm": func(ctx context.Context) error { return repo.Confirm(ctx, lock) },
		"release": func(ctx context.Context) error { return repo.Release(ctx, lock) },
		"delete expired": func(ctx context.Context) error {
			_, err := repo.DeleteExpired(ctx, lock.ID, time.Now())
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			started := time.Now()
			err := call(context.Background())
			require.Error(t, err)
			assert.True(t, mongo.IsTimeout(err), "got %v", err)
			assert.Less(t, time.Since(started), 5*time.Second)
		})
	}
}

func TestLockRepository_ReleaseKeepsNewerHolder(t *testing.T) {
	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s must be set to run lock repository tests", EnvMongoURI)
	}
	repo := lockRepository(t, uri, 5*time.Second)
	ctx := context.Background()
	now := time.Now().UTC()

	stale, err := repo.Create(ctx, &model.AppointmentLock{ID: "appointment_lock_b_d", ExpiresAt: now.Add(-time.Second)})
	require.NoError(t, err)
	require.NotEmpty(t, stale.Token)

	cleared, err := repo.DeleteExpired(ctx, stale.ID, now)
	require.NoError(t, err)
	require.True(t, cleared)

	newer, err := repo.Create(ctx, &model.AppointmentLock{ID: "appointment_lock_b_d", ExpiresAt: now.Add(time.Minute)})
	require.NoError(t, err)
	require.NotEqual(t, stale.Token, newer.Token)

	assert.ErrorIs(t, repo.Confirm(ctx, stale), appointmentserrors.ErrLockLost)
	require.NoError(t, repo.Release(ctx, stale))

	var held model.AppointmentLock
	require.NoError(t, repo.collection.FindOne(ctx, bson.M{"_id": newer.ID}).Decode(&held))
	assert.Equal(t, newer.Token, held.Token)
	assert.NoError(t, repo.Confirm(ctx, newer))

	require.NoError(t, repo.Release(ctx, newer))
	n, err := repo.collection.CountDocuments(ctx, bson.M{"_id": newer.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
}
