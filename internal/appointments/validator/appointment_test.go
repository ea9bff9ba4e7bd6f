package validator

import (
	"testing"

	"barberbook/pkg/logger"
	"barberbook/pkg/model"
	"barberbook/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.AppointmentRequest {
	return &model.AppointmentRequest{
		BarberID:  "64b0000000000000000000aa",
		ServiceID: "64b0000000000000000000bb",
		Date:      "2026-03-02",
		StartTime: "09:30",
	}
}

func TestValidateRequest(t *testing.T) {
	v := NewAppointmentValidator(logger.Discard())

	tests := []struct {
		name   string
		mutate func(r *model.AppointmentRequest)
		field  string
	}{
		{"valid", func(r *model.AppointmentRequest) {}, ""},
		{"missing barber", func(r *model.AppointmentRequest) { r.BarberID = "" }, "barber_id"},
		{"bad service id", func(r *model.AppointmentRequest) { r.ServiceID = "svc-1" }, "service_id"},
		{"bad date", func(r *model.AppointmentRequest) { r.Date = "02/03/2026" }, "date"},
		{"bad clock", func(r *model.AppointmentRequest) { r.StartTime = "9:30" }, "start_time"},
		{"hour out of range", func(r *model.AppointmentRequest) { r.StartTime = "24:00" }, "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := v.ValidateRequest(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Fields(), tt.field)
		})
	}
}

func TestValidateTransition(t *testing.T) {
	v := NewAppointmentValidator(logger.Discard())

	assert.NoError(t, v.ValidateTransition(&model.TransitionRequest{Status: model.StatusConfirmed}))
	assert.Error(t, v.ValidateTransition(&model.TransitionRequest{Status: "archived"}))
	assert.Error(t, v.ValidateTransition(&model.TransitionRequest{}))
}
