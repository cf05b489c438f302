package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	m.Counter(MetricCallEvents, 1)
	m.Gauge("g", 1)
	m.Histogram("h", 1)
	m.Timing("t", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricCallEvents, 1, T("kind", "NEW_INBOUND_CALL"))
	m.Counter(MetricCallEvents, 1, T("kind", "NEW_INBOUND_CALL"))
	m.Counter(MetricCallEvents, 1, T("kind", "HANGUP"))
	m.Gauge("active_meetings", 3)
	m.Gauge("active_meetings", 4)
	m.Histogram("attendees", 2)
	m.Histogram("attendees", 5)
	m.Timing("route", 20*time.Millisecond)

	assert.Equal(t, int64(2), m.GetCounter(MetricCallEvents, T("kind", "NEW_INBOUND_CALL")))
	assert.Equal(t, int64(1), m.GetCounter(MetricCallEvents, T("kind", "HANGUP")))
	assert.Zero(t, m.GetCounter(MetricCallEvents))
	assert.Equal(t, 4.0, m.GetGauge("active_meetings"))
	assert.Equal(t, []float64{2, 5}, m.GetHistogram("attendees"))
	assert.Len(t, m.GetTimings("route"), 1)

	m.Reset()
	assert.Zero(t, m.GetCounter(MetricCallEvents, T("kind", "HANGUP")))
	assert.Empty(t, m.GetTimings("route"))
}

func TestFormatKey(t *testing.T) {
	tests := []struct {
		name     string
		tags     []Tag
		expected string
	}{
		{"no tags", nil, "requests"},
		{"single tag", []Tag{T("method", "GET")}, "requests:method=GET"},
		{"multiple tags", []Tag{T("method", "GET"), T("status", "200")}, "requests:method=GET:status=200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatKey("requests", tt.tags))
		})
	}
}

func TestMetricNamesAreNamespaced(t *testing.T) {
	for _, name := range []string{
		MetricOperationTotal,
		MetricMeetingsCreated,
		MetricCallEvents,
		MetricProviderErrors,
		MetricBreakerTransitions,
		MetricNotificationsFailed,
		MetricAvailabilityChanged,
		MetricEventsPublished,
	} {
		assert.True(t, strings.HasPrefix(name, "responder."), name)
	}
}

func TestInMemoryMetrics_Snapshot(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter(MetricMeetingsCreated, 2)
	m.Gauge("active_meetings", 1)

	snap := m.Snapshot()
	m.Counter(MetricMeetingsCreated, 1)

	assert.Equal(t, int64(2), snap.Counters[MetricMeetingsCreated])
	assert.Equal(t, 1.0, snap.Gauges["active_meetings"])
}
