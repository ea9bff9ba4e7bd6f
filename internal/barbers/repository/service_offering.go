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

const ServiceCollectionName = "Services"

type ServiceOfferingRepository interface {
	Create(ctx context.Context, offering *model.ServiceOffering) error
	FindByID(ctx context.Context, id string) (*model.ServiceOffering, error)
	FindByBarber(ctx context.Context, barberID string) ([]*model.ServiceOffering, error)
	Update(ctx context.Context, id string, offering *model.ServiceOffering) error
	Delete(ctx context.Context, id string) error
	DeleteByBarber(ctx context.Context, barberID string) (int64, error)
}

type mongoServiceOfferingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceOfferingRepository(cfg *config.Config) ServiceOfferingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceOfferingRepository{
		cfg:        cfg,
		collection: db.Collection(ServiceCollectionName),
	}
}

func serviceObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", barberserrors.ErrInvalidServiceID, id)
	}
	return oid, nil
}

func (r *mongoServiceOfferingRepository) Create(ctx context.Context, offering *model.ServiceOffering) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	offering.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, offering)
	if err != nil {
		return fmt.Errorf("failed to create service offering: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		offering.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceOfferingRepository) FindByID(ctx context.Context, id string) (*model.ServiceOffering, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := serviceObjectID(id)
	if err != nil {
		return nil, err
	}

	var offering model.ServiceOffering
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&offering)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, barberserrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service offering: %w", err)
	}
	return &offering, nil
}

func (r *mongoServiceOfferingRepository) FindByBarber(ctx context.Context, barberID string) ([]*model.ServiceOffering, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"barber_id": barberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service offerings: %w", err)
	}
	defer cursor.Close(ctx)

	offerings := []*model.ServiceOffering{}
	if err = cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("failed to decode service offerings: %w", err)
	}
	return offerings, nil
}

func (r *mongoServiceOfferingRepository) Update(ctx context.Context, id string, offering *model.ServiceOffering) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := serviceObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"name":             offering.Name,
			"price":            offering.Price,
			"duration_minutes": offering.DurationMinutes,
			"description":      offering.Description,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update service offering: %w", err)
	}
	if result.MatchedCount == 0 {
		return barberserrors.ErrServiceNotFound
	}
	return nil
}

func (r *mongoServiceOfferingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := serviceObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete service offering: %w", err)
	}
	if result.DeletedCount == 0 {
		return barberserrors.ErrServiceNotFound
	}
	return nil
}

func (r *mongoServiceOfferingRepository) DeleteByBarber(ctx context.Context, barberID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"barber_id": barberID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete service offerings: %w", err)
	}
	return result.DeletedCount, nil
}
