// Package latency maintains a rolling window of round-trip samples against
// a lightweight health endpoint and produces a one-way estimate used to
// compensate remotely-reported countdown values for display. It never
// influences the authoritative timer or the coordinator's expiry decision.
package latency

import (
	"sort"
	"sync"
	"time"
)

const DefaultWindowSize = 10

// Estimator keeps the last windowSize round-trip samples.
type Estimator struct {
	mu      sync.Mutex
	samples []time.Duration
	window  int
}

func NewEstimator(windowSize int) *Estimator {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Estimator{window: windowSize}
}

// Record adds a round-trip sample, evicting the oldest once the window is
// full.
func (e *Estimator) Record(rtt time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.samples = append(e.samples, rtt)
	if len(e.samples) > e.window {
		e.samples = e.samples[len(e.samples)-e.window:]
	}
}

// Estimate returns the one-way latency estimate in milliseconds: half the
// median of the window, which resists outlier samples. Zero until at least
// one sample exists.
func (e *Estimator) Estimate() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.samples) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(e.samples))
	copy(sorted, e.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var median time.Duration
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return median.Milliseconds() / 2
}

// Compensate adjusts a server-reported remaining value for display,
// clamping at zero so the countdown never shows a negative number.
func Compensate(serverRemainingMs, estimatedLatencyMs int64) int64 {
	display := serverRemainingMs - estimatedLatencyMs
	if display < 0 {
		return 0
	}
	return display
}
