package validator

import (
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type AppointmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAppointmentValidator(log *logger.Logger) *AppointmentValidator {
	v := validation.New(log)
	log.Info("Appointment validator initialized successfully")

	return &AppointmentValidator{
		validate: v,
		logger:   log,
	}
}

func (v *AppointmentValidator) ValidateRequest(req *model.AppointmentRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *AppointmentValidator) ValidateTransition(req *model.TransitionRequest) error {
	return validation.Struct(v.validate, req)
}

// Validate checks a fully built appointment before it is stored.
func (v *AppointmentValidator) Validate(appt *model.Appointment) error {
	return validation.Struct(v.validate, appt)
}
