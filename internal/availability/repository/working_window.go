package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityerrors "barberbook/internal/availability/errors"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	"barberbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Working_windows"
)

// WorkingWindowRepository stores one window per barber and date. Writes
// replace the stored window wholesale.
type WorkingWindowRepository interface {
	Upsert(ctx context.Context, window *model.WorkingWindow) error
	UpsertMany(ctx context.Context, windows []*model.WorkingWindow) error
	FindByBarberAndDate(ctx context.Context, barberID, date string) (*model.WorkingWindow, error)
	// FindByBarberInRange lists windows with from <= date <= to. Empty
	// bounds are open.
	FindByBarberInRange(ctx context.Context, barberID, from, to string) ([]*model.WorkingWindow, error)
}

type mongoWorkingWindowRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWorkingWindowRepository(cfg *config.Config) WorkingWindowRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWorkingWindowRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func windowKey(barberID, date string) bson.M {
	return bson.M{"barber_id": barberID, "date": date}
}

func windowFields(window *model.WorkingWindow) bson.M {
	return bson.M{
		"start_time":   window.StartTime,
		"end_time":     window.EndTime,
		"is_available": window.IsAvailable,
		"updated_at":   window.UpdatedAt,
	}
}

func (r *mongoWorkingWindowRepository) Upsert(ctx context.Context, window *model.WorkingWindow) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if window.UpdatedAt.IsZero() {
		window.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.collection.FindOneAndUpdate(ctx,
		windowKey(window.BarberID, window.Date),
		bson.M{"$set": windowFields(window)},
		opts,
	).Decode(window)
	if err != nil {
		return fmt.Errorf("failed to upsert working window: %w", err)
	}
	return nil
}

func (r *mongoWorkingWindowRepository) UpsertMany(ctx context.Context, windows []*model.WorkingWindow) error {
	if len(windows) == 0 {
		return nil
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	models := make([]mongo.WriteModel, 0, len(windows))
	for _, w := range windows {
		if w.UpdatedAt.IsZero() {
			w.UpdatedAt = now
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(windowKey(w.BarberID, w.Date)).
			SetUpdate(bson.M{"$set": windowFields(w)}).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to upsert working windows: %w", err)
	}
	return nil
}

func (r *mongoWorkingWindowRepository) FindByBarberAndDate(ctx context.Context, barberID, date string) (*model.WorkingWindow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var window model.WorkingWindow
	err := r.collection.FindOne(ctx, windowKey(barberID, date)).Decode(&window)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrWindowNotFound
		}
		return nil, fmt.Errorf("failed to find working window: %w", err)
	}
	return &window, nil
}

func (r *mongoWorkingWindowRepository) FindByBarberInRange(ctx context.Context, barberID, from, to string) ([]*model.WorkingWindow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"barber_id": barberID}
	dateRange := bson.M{}
	if from != "" {
		dateRange["$gte"] = from
	}
	if to != "" {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find working windows: %w", err)
	}
	defer cursor.Close(ctx)

	windows := []*model.WorkingWindow{}
	if err = cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode working windows: %w", err)
	}
	return windows, nil
}
