package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var BarberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"experience_years",
			"rating",
			"review_count",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"specialization": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"experience_years": bson.M{
				"bsonType": integer,
				"minimum":  0,
				"maximum":  80,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
				"maximum":  5,
			},

			"review_count": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ServiceOfferingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"barber_id",
			"name",
			"price",
			"duration_minutes",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"barber_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"duration_minutes": bson.M{
				"bsonType": integer,
				"minimum":  1,
				"maximum":  480,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
		},
	},
}
