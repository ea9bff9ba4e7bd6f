package model

import "time"

type Barber struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email           string    `json:"email" bson:"email" validate:"required,email"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Location        string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Specialization  string    `json:"specialization,omitempty" bson:"specialization,omitempty" validate:"omitempty,max=100"`
	ExperienceYears int       `json:"experience_years" bson:"experience_years" validate:"min=0,max=80"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Rating          float64   `json:"rating" bson:"rating"`
	ReviewCount     int       `json:"review_count" bson:"review_count"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

type BarberUpdate struct {
	Name            string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email           string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Specialization  *string `json:"specialization,omitempty" validate:"omitempty,max=100"`
	ExperienceYears *int    `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// RatingAggregate is the derived mean and count over a barber's reviews.
type RatingAggregate struct {
	Rating      float64 `json:"rating" bson:"rating"`
	ReviewCount int     `json:"review_count" bson:"review_count"`
}
