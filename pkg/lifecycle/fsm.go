// Package lifecycle governs appointment status transitions.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"barberbook/pkg/availability"
	"barberbook/pkg/model"
)

var (
	ErrInvalidTransition = errors.New("invalid appointment transition")

	ErrActorNotAllowed = errors.New("actor not allowed to perform transition")

	ErrAppointmentInPast = errors.New("appointment start is in the past")
)

// rule describes one permitted edge of the state graph.
type rule struct {
	roles     []model.Role
	notInPast bool
}

// FSM holds the transition table. Terminal states have no outgoing edges.
type FSM struct {
	transitions map[model.AppointmentStatus]map[model.AppointmentStatus]rule
	loc         *time.Location
}

// New builds the appointment state machine. loc is the zone appointment
// wall-clock times are interpreted in; nil means UTC.
func New(loc *time.Location) *FSM {
	if loc == nil {
		loc = time.UTC
	}
	both := []model.Role{model.RoleCustomer, model.RoleProvider}
	provider := []model.Role{model.RoleProvider}

	return &FSM{
		transitions: map[model.AppointmentStatus]map[model.AppointmentStatus]rule{
			model.StatusPending: {
				model.StatusConfirmed: {roles: provider, notInPast: true},
				model.StatusCancelled: {roles: both},
			},
			model.StatusConfirmed: {
				model.StatusCancelled: {roles: both},
				model.StatusCompleted: {roles: provider},
			},
		},
		loc: loc,
	}
}

var defaultFSM = New(time.UTC)

// CanTransition reports whether the edge exists for any actor.
func (f *FSM) CanTransition(from, to model.AppointmentStatus) bool {
	_, ok := f.transitions[from][to]
	return ok
}

// AllowedTargets lists the statuses role may move an appointment to from.
func (f *FSM) AllowedTargets(from model.AppointmentStatus, role model.Role) []model.AppointmentStatus {
	var targets []model.AppointmentStatus
	for _, to := range []model.AppointmentStatus{model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled} {
		r, ok := f.transitions[from][to]
		if ok && hasRole(r.roles, role) {
			targets = append(targets, to)
		}
	}
	return targets
}

// Transition returns a copy of appt moved to target on behalf of role. The
// input appointment is left untouched. Every rejection wraps
// ErrInvalidTransition.
func (f *FSM) Transition(appt *model.Appointment, target model.AppointmentStatus, role model.Role, now time.Time) (*model.Appointment, error) {
	if appt == nil {
		return nil, fmt.Errorf("%w: appointment is required", ErrInvalidTransition)
	}
	from := appt.Status
	if from.Terminal() {
		return nil, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}

	r, ok := f.transitions[from][target]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}
	if !hasRole(r.roles, role) {
		return nil, fmt.Errorf("%w: %w: %s cannot move %s -> %s", ErrInvalidTransition, ErrActorNotAllowed, role, from, target)
	}
	if r.notInPast {
		start, err := availability.StartsAt(appt.Date, appt.StartTime, f.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		if start.Before(now) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, ErrAppointmentInPast)
		}
	}

	next := *appt
	next.Status = target
	next.UpdatedAt = now.UTC()
	return &next, nil
}

func Transition(appt *model.Appointment, target model.AppointmentStatus, role model.Role, now time.Time) (*model.Appointment, error) {
	return defaultFSM.Transition(appt, target, role, now)
}

func CanTransition(from, to model.AppointmentStatus) bool {
	return defaultFSM.CanTransition(from, to)
}

func hasRole(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
