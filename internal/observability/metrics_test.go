package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLoginAttemptsCounter(t *testing.T) {
	counter := LoginAttempts().WithLabelValues("student", "success")
	before := testutil.ToFloat64(counter)

	counter.Inc()

	require.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		RegisterMetrics()
		RegisterMetrics()
	})
	require.NotNil(t, ActivityEvents())
	require.NotNil(t, HTTPRequests())
	require.NotNil(t, HTTPLatency())
}
