package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	clockPattern = `^([01]\d|2[0-3]):[0-5]\d$`
)

var AppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"barber_id",
			"customer_id",
			"date",
			"start_time",
			"duration_minutes",
			"status",
			"service",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"barber_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"duration_minutes": bson.M{
				"bsonType": integer,
				"minimum":  1,
				"maximum":  1440,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "completed", "cancelled"},
			},

			"service": bson.M{
				"bsonType": "object",
				"required": []string{"service_id", "name", "price", "duration_minutes"},
				"properties": bson.M{
					"service_id": bson.M{
						"bsonType": "string",
					},
					"name": bson.M{
						"bsonType": "string",
					},
					"price": bson.M{
						"bsonType": []string{"double", "int", "long"},
						"minimum":  0,
					},
					"duration_minutes": bson.M{
						"bsonType": integer,
						"minimum":  1,
					},
				},
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

var AppointmentLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "token", "expires_at", "created_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"token": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"confirmed_at": bson.M{
				"bsonType": "date",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var WorkingWindowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"barber_id",
			"date",
			"is_available",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"barber_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^(([01]\d|2[0-3]):[0-5]\d)?$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^(([01]\d|2[0-3]):[0-5]\d)?$`,
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
