package monitoring

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, 50.0, stats["error_rate_percent"])
}

func TestMetricsScoresByMethod(t *testing.T) {
	m := NewMetrics()

	m.RecordScore("entropy")
	m.RecordScore("entropy")
	m.RecordScore("margin")

	scores := m.GetScoresByMethod()
	assert.Equal(t, int64(2), scores["entropy"])
	assert.Equal(t, int64(1), scores["margin"])
	assert.NotContains(t, scores, "ratio")
}

func TestMetricsStatusCodeDistribution(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(http.StatusOK)
	m.RecordRequestByStatus(http.StatusOK)
	m.RecordRequestByStatus(http.StatusBadRequest)

	dist := m.GetStatusCodeDistribution()
	assert.Equal(t, int64(2), dist[http.StatusOK])
	assert.Equal(t, int64(1), dist[http.StatusBadRequest])
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p50 := m.GetPercentileResponseTime(50)
	p99 := m.GetPercentileResponseTime(99)

	assert.InDelta(t, 50, p50.Milliseconds(), 2)
	assert.InDelta(t, 99, p99.Milliseconds(), 2)
	assert.Greater(t, p99, p50)
}

func TestMetricsPercentileEmpty(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(95))
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementError()
	m.RecordScore("least_confidence")
	m.RecordRequestByStatus(http.StatusOK)
	m.RecordResponseTime(5 * time.Millisecond)

	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, int64(0), stats["error_count"])
	assert.Empty(t, m.GetScoresByMethod())
	assert.Empty(t, m.GetStatusCodeDistribution())
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))
}
