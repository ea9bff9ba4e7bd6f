package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	barberserrors "barberbook/internal/barbers/errors"
	"barberbook/pkg/config"
	mongotx "barberbook/pkg/db/mongo"
	"barberbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Barbers"
)

type BarberRepository interface {
	Create(ctx context.Context, barber *model.Barber) error
	FindByID(ctx context.Context, id string) (*model.Barber, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Barber, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, barber *model.Barber) error
	Delete(ctx context.Context, id string) error
	// ApplyRating overwrites the derived review aggregate.
	ApplyRating(ctx context.Context, id string, aggregate model.RatingAggregate) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBarberRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBarberRepository(cfg *config.Config) BarberRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBarberRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", barberserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBarberRepository) Create(ctx context.Context, barber *model.Barber) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	barber.CreatedAt = now
	barber.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, barber)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return barberserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create barber: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		barber.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBarberRepository) FindByID(ctx context.Context, id string) (*model.Barber, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var barber model.Barber
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&barber)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, barberserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find barber: %w", err)
	}

	return &barber, nil
}

func (r *mongoBarberRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Barber, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find barbers: %w", err)
	}
	defer cursor.Close(ctx)

	barbers := []*model.Barber{}
	if err = cursor.All(ctx, &barbers); err != nil {
		return nil, fmt.Errorf("failed to decode barbers: %w", err)
	}

	return barbers, nil
}

func (r *mongoBarberRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count barbers: %w", err)
	}
	return count, nil
}

func (r *mongoBarberRepository) Update(ctx context.Context, id string, barber *model.Barber) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"name":             barber.Name,
			"email":            barber.Email,
			"phone":            barber.Phone,
			"location":         barber.Location,
			"specialization":   barber.Specialization,
			"experience_years": barber.ExperienceYears,
			"description":      barber.Description,
			"updated_at":       time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return barberserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to update barber: %w", err)
	}
	if result.MatchedCount == 0 {
		return barberserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBarberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete barber: %w", err)
	}
	if result.DeletedCount == 0 {
		return barberserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBarberRepository) ApplyRating(ctx context.Context, id string, aggregate model.RatingAggregate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"rating":       aggregate.Rating,
			"review_count": aggregate.ReviewCount,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to apply barber rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return barberserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBarberRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
