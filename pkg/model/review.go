package model

import "time"

type Review struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AppointmentID string    `json:"appointment_id" bson:"appointment_id" validate:"required,mongodb"`
	BarberID      string    `json:"barber_id" bson:"barber_id" validate:"required,mongodb"`
	CustomerID    string    `json:"customer_id" bson:"customer_id" validate:"required"`
	Rating        int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment       string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

type ReviewRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,mongodb"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
