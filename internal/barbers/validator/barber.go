package validator

import (
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Country calling codes a barber phone may carry.
var supportedCountryCodes = map[int32]bool{
	972: true,
	1:   true,
}

type BarberValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBarberValidator(log *logger.Logger) *BarberValidator {
	v := validation.New(log)
	log.Info("Barber validator initialized successfully")

	return &BarberValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BarberValidator) Validate(barber *model.Barber) error {
	if err := validation.Struct(v.validate, barber); err != nil {
		return err
	}
	return validatePhoneCountry(barber.Phone)
}

func (v *BarberValidator) ValidateUpdate(update *model.BarberUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	if update.Phone != nil {
		return validatePhoneCountry(*update.Phone)
	}
	return nil
}

func validatePhoneCountry(phone string) error {
	if phone == "" {
		return nil
	}
	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil || !supportedCountryCodes[parsed.GetCountryCode()] {
		return validation.ValidationErrors{{
			Field:   "phone",
			Message: "phone must belong to a supported country",
		}}
	}
	return nil
}

func (v *BarberValidator) ValidateOffering(offering *model.ServiceOffering) error {
	return validation.Struct(v.validate, offering)
}

func (v *BarberValidator) ValidateOfferingUpdate(update *model.ServiceOfferingUpdate) error {
	return validation.Struct(v.validate, update)
}
