package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("fcgiclient_test", reg)

	c.ObserveRequest(true, 10*time.Millisecond)
	c.ObserveRequest(false, 20*time.Millisecond)

	require.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("error")))
}

func TestCollectorBytesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("fcgiclient_test", reg)

	c.AddBytesSent("stdin", 128)
	c.AddBytesSent("stdin", 32)
	c.AddBytesReceived("stdout", 64)

	require.Equal(t, float64(160), testutil.ToFloat64(c.bytesSent.WithLabelValues("stdin")))
	require.Equal(t, float64(64), testutil.ToFloat64(c.bytesReceived.WithLabelValues("stdout")))
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.ObserveRequest(true, time.Second)
		c.AddBytesSent("stdin", 10)
		c.AddBytesReceived("stdout", 10)
	})
}
