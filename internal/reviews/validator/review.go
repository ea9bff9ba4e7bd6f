package validator

import (
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ReviewValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	v := validation.New(log)
	log.Info("Review validator initialized successfully")

	return &ReviewValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ReviewValidator) ValidateRequest(req *model.ReviewRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *ReviewValidator) ValidateUpdate(update *model.ReviewUpdate) error {
	return validation.Struct(v.validate, update)
}

func (v *ReviewValidator) Validate(review *model.Review) error {
	return validation.Struct(v.validate, review)
}
