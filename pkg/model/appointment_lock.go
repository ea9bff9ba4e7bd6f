package model

import "time"

// AppointmentLock is an advisory lock document keyed by barber and date.
// The unique _id makes a second insert fail while the first holder works.
// Token identifies the holder; only the holder may confirm or release it.
type AppointmentLock struct {
	ID        string    `bson:"_id" json:"id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
