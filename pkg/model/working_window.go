package model

import "time"

// WorkingWindow is a barber's bookable range on one calendar date. Times may
// be empty when the barber is not available that day.
type WorkingWindow struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	BarberID    string    `json:"barber_id" bson:"barber_id" validate:"required,mongodb"`
	Date        string    `json:"date" bson:"date" validate:"required,isodate"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"omitempty,clock"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"omitempty,clock"`
	IsAvailable bool      `json:"is_available" bson:"is_available"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type AvailableSlots struct {
	BarberID        string   `json:"barber_id"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Slots           []string `json:"slots"`
}
