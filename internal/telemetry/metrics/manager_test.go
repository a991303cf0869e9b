package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterRegistrations.Inc()
	m.CounterLogins.WithLabelValues("success").Inc()
	m.CounterLogins.WithLabelValues("failure").Add(2)
	m.GaugeLifeSignal.Set(1)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRegistrations))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterLogins.WithLabelValues("failure")))

	var gauge dto.Metric
	require.NoError(t, m.GaugeLifeSignal.Write(&gauge))
	assert.Equal(t, float64(1), gauge.GetGauge().GetValue())

	// rate limited counter is registered on the given registry, not the global one
	count, err := testutil.GatherAndCount(reg, "backend_test_server_rate_limited_requests")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetupPrometheus(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_counter", Help: "extra"})
	reg := SetupPrometheus(extra, nil)
	require.NotNil(t, reg)

	extra.Inc()
	count, err := testutil.GatherAndCount(reg, "extra_counter")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
