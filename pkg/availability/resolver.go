// Package availability computes bookable start times for a barber's working
// day. Everything here is pure and safe for concurrent use.
package availability

import (
	"errors"
	"fmt"

	"barberbook/pkg/model"
)

const DefaultGranularity = 30

// ComputeAvailableSlots lists the HH:MM start times, ascending, at which a
// service of durationMinutes fits inside the window without overlapping any
// occupying appointment. An unavailable window yields an empty result.
//
// existing must already be narrowed to the window's barber and date.
func ComputeAvailableSlots(window *model.WorkingWindow, existing []*model.Appointment, durationMinutes, granularityMinutes int) ([]string, error) {
	if window == nil {
		return nil, fmt.Errorf("%w: window is required", ErrInvalidWindow)
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if granularityMinutes <= 0 {
		return nil, ErrInvalidGranularity
	}

	slots := []string{}
	if !window.IsAvailable {
		return slots, nil
	}

	open, closing, err := WindowBounds(window)
	if err != nil {
		return nil, err
	}

	busy := Busy(existing)
	for t := open; t <= closing; t += granularityMinutes {
		candidate := NewInterval(t, durationMinutes)
		if candidate.End > closing {
			continue
		}
		if overlapsAny(candidate, busy) {
			continue
		}
		slots = append(slots, FormatClock(t))
	}
	return slots, nil
}

// WindowBounds parses the window's range and enforces start < end.
func WindowBounds(window *model.WorkingWindow) (int, int, error) {
	open, err := ParseClock(window.StartTime)
	if err != nil {
		return 0, 0, errors.Join(ErrInvalidWindow, err)
	}
	closing, err := ParseClock(window.EndTime)
	if err != nil {
		return 0, 0, errors.Join(ErrInvalidWindow, err)
	}
	if open >= closing {
		return 0, 0, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidWindow, window.StartTime, window.EndTime)
	}
	return open, closing, nil
}

// Fits reports whether [start, start+duration) lies inside the window and on
// its granularity grid.
func Fits(window *model.WorkingWindow, startTime string, durationMinutes, granularityMinutes int) (bool, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return false, err
	}
	return FitsAt(window, start, durationMinutes, granularityMinutes)
}

// FitsAt is Fits for a start already expressed in minutes after midnight.
func FitsAt(window *model.WorkingWindow, start, durationMinutes, granularityMinutes int) (bool, error) {
	if window == nil || !window.IsAvailable {
		return false, nil
	}
	open, closing, err := WindowBounds(window)
	if err != nil {
		return false, err
	}
	if start < open || start+durationMinutes > closing {
		return false, nil
	}
	if granularityMinutes > 0 && (start-open)%granularityMinutes != 0 {
		return false, nil
	}
	return true, nil
}
