package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AppointmentsCreated.Inc()
	m.Transitions.WithLabelValues("pending", "confirmed").Inc()
	m.Transitions.WithLabelValues("pending", "confirmed").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("pending", "confirmed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoop()
		NewNoop()
	})
}
