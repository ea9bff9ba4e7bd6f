package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func uniqueKeys(models []mongo.IndexModel) []bson.D {
	var keys []bson.D
	for _, m := range models {
		if m.Options != nil && m.Options.Unique != nil && *m.Options.Unique {
			keys = append(keys, m.Keys.(bson.D))
		}
	}
	return keys
}

func TestCollections_HaveValidatorsAndIndexes(t *testing.T) {
	for name, def := range Collections() {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, def.Indexes)
			require.NotNil(t, def.Validator)
			assert.Contains(t, def.Validator, "$jsonSchema")
		})
	}
}

func TestUniqueIndexes(t *testing.T) {
	tests := []struct {
		collection string
		want       bson.D
	}{
		{"Barbers", bson.D{{Key: "email", Value: 1}}},
		{"Working_windows", bson.D{{Key: "barber_id", Value: 1}, {Key: "date", Value: 1}}},
		{"Reviews", bson.D{{Key: "appointment_id", Value: 1}}},
		{"Favorites", bson.D{{Key: "customer_id", Value: 1}, {Key: "barber_id", Value: 1}}},
	}

	collections := Collections()
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			assert.Contains(t, uniqueKeys(collections[tt.collection].Indexes), tt.want)
		})
	}
}

func TestAppointmentLocksExpire(t *testing.T) {
	indexes := Collections()["Appointment_locks"].Indexes
	require.Len(t, indexes, 1)
	require.NotNil(t, indexes[0].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *indexes[0].Options.ExpireAfterSeconds)
}
