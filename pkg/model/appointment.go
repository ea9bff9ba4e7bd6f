package model

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ServiceSnapshot freezes the offering at booking time so later edits to the
// offering never change historical appointments.
type ServiceSnapshot struct {
	ServiceID       string  `json:"service_id" bson:"service_id"`
	Name            string  `json:"name" bson:"name"`
	Price           float64 `json:"price" bson:"price"`
	DurationMinutes int     `json:"duration_minutes" bson:"duration_minutes"`
}

type Appointment struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BarberID        string            `json:"barber_id" bson:"barber_id" validate:"required,mongodb"`
	CustomerID      string            `json:"customer_id" bson:"customer_id" validate:"required,min=1,max=128"`
	Date            string            `json:"date" bson:"date" validate:"required,isodate"`
	StartTime       string            `json:"start_time" bson:"start_time" validate:"required,clock"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=1440"`
	Status          AppointmentStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Service         ServiceSnapshot   `json:"service" bson:"service"`
	BarberName      string            `json:"barber_name" bson:"barber_name"`
	CustomerName    string            `json:"customer_name" bson:"customer_name" validate:"omitempty,max=100"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

// AppointmentRequest is what a customer submits when booking.
type AppointmentRequest struct {
	BarberID     string `json:"barber_id" validate:"required,mongodb"`
	ServiceID    string `json:"service_id" validate:"required,mongodb"`
	Date         string `json:"date" validate:"required,isodate"`
	StartTime    string `json:"start_time" validate:"required,clock"`
	CustomerName string `json:"customer_name" validate:"omitempty,max=100"`
}

type TransitionRequest struct {
	Status AppointmentStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}
