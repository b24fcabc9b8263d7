package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveCycle(ResultSuccess, 150*time.Millisecond)
	m.ObserveCycle(ResultFailure, time.Second)
	m.ObserveCycle(ResultSkipped, 0)
	m.AddSubmitFailures(2)
	m.SetStoreSize(7)

	assert.InDelta(t, 1, testutil.ToFloat64(m.cycles.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cycles.WithLabelValues(ResultFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cycles.WithLabelValues(ResultSkipped)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.submitFailures), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.storeSize), 0)

	assert.Equal(t, 1, testutil.CollectAndCount(m.cycleDuration))

	expected := `
# HELP quote_store_size Number of quotes currently held.
# TYPE quote_store_size gauge
quote_store_size 7
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "quote_store_size"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveCycle(ResultSuccess, time.Second)
		m.AddSubmitFailures(3)
		m.SetStoreSize(1)
	})
}

func TestAddSubmitFailures_IgnoresNonPositive(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.AddSubmitFailures(0)
	m.AddSubmitFailures(-1)

	assert.Zero(t, testutil.ToFloat64(m.submitFailures))
}
