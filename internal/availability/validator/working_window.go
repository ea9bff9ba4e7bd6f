package validator

import (
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const MaxWindowsPerRequest = 62

type WindowValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewWindowValidator(log *logger.Logger) *WindowValidator {
	return &WindowValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

// Validate checks field formats only. Range checks (start before end) are
// done by the service so they surface as INVALID_WINDOW.
func (v *WindowValidator) Validate(window *model.WorkingWindow) error {
	return validation.Struct(v.validate, window)
}
