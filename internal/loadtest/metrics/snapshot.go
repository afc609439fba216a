package metrics

import (
	"math"
	"sort"
	"time"
)

// Snapshot is a point-in-time aggregation of every sample appended so far.
// Taken after worker join it reflects each appended sample exactly once.
// Unlike the live histogram view, all values here are exact.
type Snapshot struct {
	Count        int64   `json:"count"`
	SuccessCount int64   `json:"successCount"`
	FailedCount  int64   `json:"failedCount"`
	SuccessRate  float64 `json:"successRate"`

	Min  time.Duration `json:"min"`
	Mean time.Duration `json:"mean"`
	Max  time.Duration `json:"max"`

	P50 time.Duration `json:"p50"`
	P90 time.Duration `json:"p90"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`

	// PerRequest breaks the same statistics down by request name.
	PerRequest map[string]*RequestStats `json:"perRequest"`

	// Phase is the collector phase at snapshot time.
	Phase Phase `json:"phase"`

	sorted []time.Duration
}

// RequestStats aggregates the samples of one request name.
type RequestStats struct {
	Count        int64   `json:"count"`
	SuccessCount int64   `json:"successCount"`
	SuccessRate  float64 `json:"successRate"`

	Min  time.Duration `json:"min"`
	Mean time.Duration `json:"mean"`
	Max  time.Duration `json:"max"`

	P50 time.Duration `json:"p50"`
	P90 time.Duration `json:"p90"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

// Snapshot derives exact statistics from the samples appended so far.
func (c *Collector) Snapshot() *Snapshot {
	c.mu.Lock()
	samples := make([]Sample, len(c.samples))
	copy(samples, c.samples)
	c.mu.Unlock()

	snap := &Snapshot{
		PerRequest: make(map[string]*RequestStats),
		Phase:      c.CurrentPhase(),
	}
	if len(samples) == 0 {
		return snap
	}

	sorted := make([]time.Duration, len(samples))
	byRequest := make(map[string][]time.Duration)
	successByRequest := make(map[string]int64)
	var sum time.Duration
	for i, s := range samples {
		sorted[i] = s.Duration
		sum += s.Duration
		byRequest[s.Request] = append(byRequest[s.Request], s.Duration)
		if s.Success {
			snap.SuccessCount++
			successByRequest[s.Request]++
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	snap.Count = int64(len(samples))
	snap.FailedCount = snap.Count - snap.SuccessCount
	snap.SuccessRate = float64(snap.SuccessCount) / float64(snap.Count) * 100
	snap.Min = sorted[0]
	snap.Max = sorted[len(sorted)-1]
	snap.Mean = sum / time.Duration(len(samples))
	snap.P50 = nearestRank(sorted, 50)
	snap.P90 = nearestRank(sorted, 90)
	snap.P95 = nearestRank(sorted, 95)
	snap.P99 = nearestRank(sorted, 99)
	snap.sorted = sorted

	for name, durations := range byRequest {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		var reqSum time.Duration
		for _, d := range durations {
			reqSum += d
		}
		count := int64(len(durations))
		success := successByRequest[name]
		snap.PerRequest[name] = &RequestStats{
			Count:        count,
			SuccessCount: success,
			SuccessRate:  float64(success) / float64(count) * 100,
			Min:          durations[0],
			Mean:         reqSum / time.Duration(count),
			Max:          durations[len(durations)-1],
			P50:          nearestRank(durations, 50),
			P90:          nearestRank(durations, 90),
			P95:          nearestRank(durations, 95),
			P99:          nearestRank(durations, 99),
		}
	}
	return snap
}

// Percentile returns the p-th percentile of all sample durations by nearest
// rank: index ceil(p/100*count)-1 into the sorted durations, clamped to the
// valid range. Percentile(0) is the minimum and Percentile(100) the maximum
// whenever the snapshot holds samples; an empty snapshot returns 0.
func (s *Snapshot) Percentile(p float64) time.Duration {
	return nearestRank(s.sorted, p)
}

func nearestRank(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
