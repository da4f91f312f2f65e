package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	outreachGeneratedTotal  atomic.Uint64
	outreachFailedTotal     atomic.Uint64
	enrichmentFailedTotal   atomic.Uint64
	generationFallbackTotal atomic.Uint64
	followupsGeneratedTotal atomic.Uint64

	outreachDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncOutreachGenerated counts a successfully persisted outreach draft.
func IncOutreachGenerated() {
	outreachGeneratedTotal.Add(1)
}

// IncOutreachFailed counts a generate request that surfaced an error.
func IncOutreachFailed() {
	outreachFailedTotal.Add(1)
}

// IncEnrichmentFailed counts a degraded enrichment step.
func IncEnrichmentFailed() {
	enrichmentFailedTotal.Add(1)
}

// IncGenerationFallback counts a stage that substituted its empty default.
func IncGenerationFallback() {
	generationFallbackTotal.Add(1)
}

// IncFollowupGenerated counts an accepted follow-up.
func IncFollowupGenerated() {
	followupsGeneratedTotal.Add(1)
}

// ObserveOutreachDurationMs records a generate duration in milliseconds.
func ObserveOutreachDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	outreachDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "outreach_generated_total", "Total outreach drafts generated", outreachGeneratedTotal.Load())
	writeCounter(&buf, "outreach_failed_total", "Total outreach generations failed", outreachFailedTotal.Load())
	writeCounter(&buf, "enrichment_failed_total", "Total enrichment steps degraded", enrichmentFailedTotal.Load())
	writeCounter(&buf, "generation_fallback_total", "Total stage outputs replaced by defaults", generationFallbackTotal.Load())
	writeCounter(&buf, "followups_generated_total", "Total follow-ups generated", followupsGeneratedTotal.Load())
	writeHistogram(&buf, "outreach_duration_ms", "Outreach generation duration in milliseconds", outreachDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
