package validation

import (
	"testing"

	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"required,clock"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
}

func TestStruct_CustomTags(t *testing.T) {
	v := New(logger.Discard())

	assert.NoError(t, Struct(v, &sample{Date: "2026-03-01", StartTime: "09:30", Rating: 4}))

	err := Struct(v, &sample{Date: "2026-13-01", StartTime: "9:30", Rating: 9})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.Fields()
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "rating")
	assert.Equal(t, "start_time must be a time of day in HH:MM format", fields["start_time"])
}

func TestAsAppError(t *testing.T) {
	v := New(logger.Discard())
	err := Struct(v, &sample{Date: "x", StartTime: "09:00", Rating: 1})

	appErr := AsAppError("Invalid request", err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, 422, appErr.StatusCode())
	assert.Contains(t, appErr.Details, "date")
}
