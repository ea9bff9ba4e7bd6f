package model

import "time"

type ServiceOffering struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BarberID        string    `json:"barber_id" bson:"barber_id" validate:"required,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Price           float64   `json:"price" bson:"price" validate:"gte=0"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=480"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

type ServiceOfferingUpdate struct {
	Name            string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=480"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (o *ServiceOffering) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{
		ServiceID:       o.ID,
		Name:            o.Name,
		Price:           o.Price,
		DurationMinutes: o.DurationMinutes,
	}
}
