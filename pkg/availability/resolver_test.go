package availability

import (
	"testing"

	"barberbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(start, end string, available bool) *model.WorkingWindow {
	return &model.WorkingWindow{
		BarberID:    "665f1c2a9b1e8a0012345678",
		Date:        "2025-06-02",
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
}

func appt(start string, duration int, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		Date:            "2025-06-02",
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestComputeAvailableSlots(t *testing.T) {
	tests := []struct {
		name     string
		window   *model.WorkingWindow
		existing []*model.Appointment
		duration int
		expected []string
	}{
		{
			name:     "empty day",
			window:   window("09:00", "11:00", true),
			duration: 30,
			expected: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:     "confirmed appointment blocks its slot",
			window:   window("09:00", "11:00", true),
			existing: []*model.Appointment{appt("09:30", 30, model.StatusConfirmed)},
			duration: 30,
			expected: []string{"09:00", "10:00", "10:30"},
		},
		{
			name:     "hour long appointment blocks two slots",
			window:   window("09:00", "11:00", true),
			existing: []*model.Appointment{appt("09:00", 60, model.StatusPending)},
			duration: 30,
			expected: []string{"10:00", "10:30"},
		},
		{
			name:     "cancelled appointment frees its slot",
			window:   window("09:00", "11:00", true),
			existing: []*model.Appointment{appt("09:30", 30, model.StatusCancelled)},
			duration: 30,
			expected: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:     "completed appointment still occupies",
			window:   window("09:00", "10:00", true),
			existing: []*model.Appointment{appt("09:00", 30, model.StatusCompleted)},
			duration: 30,
			expected: []string{"09:30"},
		},
		{
			name:     "long service must finish before closing",
			window:   window("09:00", "11:00", true),
			duration: 90,
			expected: []string{"09:00", "09:30"},
		},
		{
			name:     "service longer than window",
			window:   window("09:00", "10:00", true),
			duration: 90,
			expected: []string{},
		},
		{
			name:     "partial overlap from the left",
			window:   window("09:00", "11:00", true),
			existing: []*model.Appointment{appt("09:45", 30, model.StatusConfirmed)},
			duration: 30,
			expected: []string{"09:00", "10:30"},
		},
		{
			name:     "new interval contains existing one",
			window:   window("09:00", "12:00", true),
			existing: []*model.Appointment{appt("10:15", 15, model.StatusConfirmed)},
			duration: 60,
			expected: []string{"09:00", "10:30", "11:00"},
		},
		{
			name:     "malformed appointment is ignored",
			window:   window("09:00", "10:00", true),
			existing: []*model.Appointment{appt("9am", 30, model.StatusConfirmed), nil},
			duration: 30,
			expected: []string{"09:00", "09:30"},
		},
		{
			name:     "fully booked",
			window:   window("09:00", "10:00", true),
			existing: []*model.Appointment{appt("09:00", 60, model.StatusConfirmed)},
			duration: 30,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := ComputeAvailableSlots(tt.window, tt.existing, tt.duration, DefaultGranularity)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slots)
		})
	}
}

func TestComputeAvailableSlots_UnavailableWindow(t *testing.T) {
	for _, w := range []*model.WorkingWindow{
		window("09:00", "17:00", false),
		window("17:00", "09:00", false),
		window("", "", false),
	} {
		slots, err := ComputeAvailableSlots(w, []*model.Appointment{appt("09:00", 30, model.StatusConfirmed)}, 30, DefaultGranularity)
		require.NoError(t, err)
		assert.Empty(t, slots)
	}
}

func TestComputeAvailableSlots_InvalidInput(t *testing.T) {
	_, err := ComputeAvailableSlots(nil, nil, 30, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ComputeAvailableSlots(window("11:00", "09:00", true), nil, 30, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ComputeAvailableSlots(window("09:00", "09:00", true), nil, 30, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ComputeAvailableSlots(window("9:00", "11:00", true), nil, 30, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = ComputeAvailableSlots(window("09:00", "11:00", true), nil, 0, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ComputeAvailableSlots(window("09:00", "11:00", true), nil, -15, DefaultGranularity)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ComputeAvailableSlots(window("09:00", "11:00", true), nil, 30, 0)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestComputeAvailableSlots_Granularity(t *testing.T) {
	slots, err := ComputeAvailableSlots(window("09:00", "10:00", true), nil, 30, 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15", "09:30"}, slots)
}

func TestComputeAvailableSlots_Deterministic(t *testing.T) {
	w := window("08:00", "18:00", true)
	existing := []*model.Appointment{
		appt("12:00", 45, model.StatusConfirmed),
		appt("09:00", 30, model.StatusPending),
		appt("15:30", 60, model.StatusCancelled),
	}

	first, err := ComputeAvailableSlots(w, existing, 30, DefaultGranularity)
	require.NoError(t, err)
	second, err := ComputeAvailableSlots(w, existing, 30, DefaultGranularity)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
}

func TestComputeAvailableSlots_NeverPastClosingNorOverlapping(t *testing.T) {
	w := window("09:00", "13:00", true)
	existing := []*model.Appointment{
		appt("09:30", 45, model.StatusConfirmed),
		appt("11:00", 20, model.StatusPending),
	}
	busy := Busy(existing)

	for _, duration := range []int{15, 30, 45, 60, 90} {
		slots, err := ComputeAvailableSlots(w, existing, duration, DefaultGranularity)
		require.NoError(t, err)
		for _, s := range slots {
			start, err := ParseClock(s)
			require.NoError(t, err)
			candidate := NewInterval(start, duration)
			assert.LessOrEqual(t, candidate.End, 13*60, "slot %s duration %d", s, duration)
			for _, b := range busy {
				assert.False(t, candidate.Overlaps(b), "slot %s duration %d overlaps %v", s, duration, b)
			}
		}
	}
}

func TestCancellationFreesInterval(t *testing.T) {
	w := window("09:00", "11:00", true)
	booked := appt("10:00", 30, model.StatusConfirmed)

	slots, err := ComputeAvailableSlots(w, []*model.Appointment{booked}, 30, DefaultGranularity)
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")

	booked.Status = model.StatusCancelled
	slots, err = ComputeAvailableSlots(w, []*model.Appointment{booked}, 30, DefaultGranularity)
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestFits(t *testing.T) {
	w := window("09:00", "11:00", true)

	tests := []struct {
		start    string
		duration int
		expected bool
	}{
		{"09:00", 30, true},
		{"10:30", 30, true},
		{"10:30", 60, false},
		{"08:30", 30, false},
		{"09:15", 30, false},
		{"11:00", 30, false},
	}
	for _, tt := range tests {
		ok, err := Fits(w, tt.start, tt.duration, DefaultGranularity)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, ok, "%s for %d minutes", tt.start, tt.duration)
	}

	ok, err := Fits(window("09:00", "11:00", false), "09:00", 30, DefaultGranularity)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFits_RejectsMalformedStart(t *testing.T) {
	w := window("09:00", "11:00", true)

	ok, err := Fits(w, "9am", 30, DefaultGranularity)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestFitsAt_MatchesFits(t *testing.T) {
	w := window("09:00", "11:00", true)

	for _, start := range []string{"09:00", "09:15", "10:30", "10:45"} {
		minutes, err := ParseClock(start)
		require.NoError(t, err)

		want, err := Fits(w, start, 30, DefaultGranularity)
		require.NoError(t, err)
		got, err := FitsAt(w, minutes, 30, DefaultGranularity)
		require.NoError(t, err)
		assert.Equal(t, want, got, start)
	}
}
