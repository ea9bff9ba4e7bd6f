package availability

import "barberbook/pkg/model"

// Interval is a half-open range [Start, End) in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, durationMinutes int) Interval {
	return Interval{Start: start, End: start + durationMinutes}
}

// Overlaps is symmetric and covers containment, partial overlap and exact
// alignment with one test. Touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Occupies reports whether an appointment holds its interval. Cancelled
// appointments free their slot.
func Occupies(a *model.Appointment) bool {
	return a != nil && a.Status != model.StatusCancelled
}

// IntervalOf returns the interval an appointment occupies on its date.
func IntervalOf(a *model.Appointment) (Interval, error) {
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return Interval{}, err
	}
	if a.DurationMinutes <= 0 {
		return Interval{}, ErrInvalidDuration
	}
	return NewInterval(start, a.DurationMinutes), nil
}

// Busy collects the occupied intervals of the given appointments, skipping
// cancelled and malformed entries.
func Busy(appointments []*model.Appointment) []Interval {
	busy := make([]Interval, 0, len(appointments))
	for _, a := range appointments {
		if !Occupies(a) {
			continue
		}
		iv, err := IntervalOf(a)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// Conflicts returns the first occupying appointment whose interval overlaps
// the candidate, or nil. Used to re-check occupancy at commit time.
func Conflicts(candidate Interval, appointments []*model.Appointment, skipID string) *model.Appointment {
	for _, a := range appointments {
		if !Occupies(a) || (skipID != "" && a.ID == skipID) {
			continue
		}
		iv, err := IntervalOf(a)
		if err != nil {
			continue
		}
		if candidate.Overlaps(iv) {
			return a
		}
	}
	return nil
}
