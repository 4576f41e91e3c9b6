package tuning

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// zeroThreshold is the velocity/acceleration magnitude below which a
// sample is treated as a sign-crossing rather than noise jitter around
// zero.
const zeroThreshold = 1e-6

// Halfcycle is one sign-consistent run of a ringdown trace: the interval
// between two consecutive zero crossings, analogous to one compression
// or rebound stroke in a suspension-telemetry trace.
type Halfcycle struct {
	Start, End int // sample index range, inclusive
	PeakAbs    float64
	Duration   float64 // seconds
}

func sign(v float64) int8 {
	if math.Abs(v) <= zeroThreshold {
		return 0
	}
	if math.Signbit(v) {
		return -1
	}
	return 1
}

// SegmentRingdown splits a smoothed acceleration trace into half-cycles
// by sign change, merging consecutive low-amplitude runs the way stroke
// detection merges brief idling segments: a ringdown tail that has decayed
// into noise should not fragment into many near-zero half-cycles.
func SegmentRingdown(accel []float64, rate float64) []Halfcycle {
	if len(accel) == 0 || rate == 0 {
		return nil
	}

	var out []Halfcycle
	i := 0
	for i < len(accel) {
		start := i
		s := sign(accel[i])
		end := i
		for end < len(accel)-1 && sign(accel[end+1]) == s {
			end++
		}
		peak := floats.Max(absSlice(accel[start : end+1]))
		duration := float64(end-start+1) / rate

		if peak < noiseFloor && len(out) > 0 && out[len(out)-1].PeakAbs < noiseFloor {
			out[len(out)-1].End = end
			out[len(out)-1].Duration += duration
		} else {
			out = append(out, Halfcycle{Start: start, End: end, PeakAbs: peak, Duration: duration})
		}
		i = end + 1
	}
	return out
}

// noiseFloor is the peak-amplitude threshold below which a half-cycle is
// considered decayed ringdown tail rather than a genuine oscillation.
const noiseFloor = 0.05

func absSlice(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}

// percentile returns the nearest-rank percentile (p in [0,1]) of values.
func percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Histogram buckets data into fixed-width bins of the given step,
// returning the bin edges and per-bin counts — a diagnostic the tuning
// UI uses to show the captured amplitude distribution.
func Histogram(data []float64, step float64) (bins []float64, counts []int) {
	if len(data) == 0 || step <= 0 {
		return nil, nil
	}
	lo := (math.Floor(floats.Min(data)/step) - 0.5) * step
	hi := (math.Floor(floats.Max(data)/step) + 1.5) * step
	if hi <= lo {
		hi = lo + step
	}
	n := int((hi-lo)/step) + 1
	if n <= 0 {
		n = 1
	}
	bins = make([]float64, n)
	for i := range bins {
		bins[i] = lo + float64(i)*step
	}
	counts = make([]int, len(bins)-1)
	for _, v := range data {
		i := sort.SearchFloat64s(bins, v)
		if i == len(bins) || (i > 0 && v < bins[i]) {
			i--
		}
		if i < 0 {
			i = 0
		} else if i >= len(counts) {
			i = len(counts) - 1
		}
		counts[i]++
	}
	return bins, counts
}
