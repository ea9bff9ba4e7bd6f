package model

import "time"

type Favorite struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID string    `json:"customer_id" bson:"customer_id"`
	BarberID   string    `json:"barber_id" bson:"barber_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
