package lifecycle

import (
	"testing"
	"time"

	"barberbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func appointment(status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:              "665f1c2a9b1e8a0012345678",
		BarberID:        "665f1c2a9b1e8a0012345600",
		CustomerID:      "customer-1",
		Date:            "2025-06-02",
		StartTime:       "10:00",
		DurationMinutes: 30,
		Status:          status,
	}
}

func TestTransition_Allowed(t *testing.T) {
	tests := []struct {
		from model.AppointmentStatus
		to   model.AppointmentStatus
		role model.Role
	}{
		{model.StatusPending, model.StatusConfirmed, model.RoleProvider},
		{model.StatusPending, model.StatusCancelled, model.RoleCustomer},
		{model.StatusPending, model.StatusCancelled, model.RoleProvider},
		{model.StatusConfirmed, model.StatusCancelled, model.RoleCustomer},
		{model.StatusConfirmed, model.StatusCancelled, model.RoleProvider},
		{model.StatusConfirmed, model.StatusCompleted, model.RoleProvider},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+" by "+string(tt.role), func(t *testing.T) {
			in := appointment(tt.from)
			out, err := Transition(in, tt.to, tt.role, now)
			require.NoError(t, err)
			assert.Equal(t, tt.to, out.Status)
			assert.Equal(t, now, out.UpdatedAt)
			assert.Equal(t, tt.from, in.Status, "input must not be mutated")
		})
	}
}

func TestTransition_Rejected(t *testing.T) {
	tests := []struct {
		name string
		from model.AppointmentStatus
		to   model.AppointmentStatus
		role model.Role
	}{
		{"pending straight to completed", model.StatusPending, model.StatusCompleted, model.RoleProvider},
		{"customer cannot confirm", model.StatusPending, model.StatusConfirmed, model.RoleCustomer},
		{"customer cannot complete", model.StatusConfirmed, model.StatusCompleted, model.RoleCustomer},
		{"confirm twice", model.StatusConfirmed, model.StatusConfirmed, model.RoleProvider},
		{"back to pending", model.StatusConfirmed, model.StatusPending, model.RoleProvider},
		{"unknown role", model.StatusPending, model.StatusCancelled, model.Role("admin")},
		{"unknown status", model.AppointmentStatus("archived"), model.StatusCancelled, model.RoleProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transition(appointment(tt.from), tt.to, tt.role, now)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	targets := []model.AppointmentStatus{
		model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled,
	}
	roles := []model.Role{model.RoleCustomer, model.RoleProvider}

	for _, from := range []model.AppointmentStatus{model.StatusCompleted, model.StatusCancelled} {
		for _, to := range targets {
			for _, role := range roles {
				_, err := Transition(appointment(from), to, role, now)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s by %s", from, to, role)
			}
		}
	}
}

func TestTransition_ConfirmInPast(t *testing.T) {
	past := appointment(model.StatusPending)
	past.Date = "2025-05-31"

	_, err := Transition(past, model.StatusConfirmed, model.RoleProvider, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrAppointmentInPast)

	// cancelling a past pending appointment is still allowed
	out, err := Transition(past, model.StatusCancelled, model.RoleCustomer, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, out.Status)
}

func TestTransition_ActorError(t *testing.T) {
	_, err := Transition(appointment(model.StatusPending), model.StatusConfirmed, model.RoleCustomer, now)
	assert.ErrorIs(t, err, ErrActorNotAllowed)
}

func TestTransition_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	fsm := New(loc)

	// 10:00 at UTC+3 is 07:00 UTC, before 08:00 UTC
	appt := appointment(model.StatusPending)
	appt.Date = "2025-06-01"
	_, err := fsm.Transition(appt, model.StatusConfirmed, model.RoleProvider, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrAppointmentInPast)

	_, err = fsm.Transition(appt, model.StatusConfirmed, model.RoleProvider, time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestAllowedTargets(t *testing.T) {
	fsm := New(nil)

	assert.ElementsMatch(t,
		[]model.AppointmentStatus{model.StatusConfirmed, model.StatusCancelled},
		fsm.AllowedTargets(model.StatusPending, model.RoleProvider))
	assert.ElementsMatch(t,
		[]model.AppointmentStatus{model.StatusCancelled},
		fsm.AllowedTargets(model.StatusPending, model.RoleCustomer))
	assert.ElementsMatch(t,
		[]model.AppointmentStatus{model.StatusCompleted, model.StatusCancelled},
		fsm.AllowedTargets(model.StatusConfirmed, model.RoleProvider))
	assert.Empty(t, fsm.AllowedTargets(model.StatusCompleted, model.RoleProvider))
	assert.Empty(t, fsm.AllowedTargets(model.StatusCancelled, model.RoleCustomer))

	assert.True(t, CanTransition(model.StatusPending, model.StatusConfirmed))
	assert.False(t, CanTransition(model.StatusPending, model.StatusCompleted))
}
