package tuning

import (
	"fmt"
	"math"

	"github.com/SeanJxie/polygo"
	"github.com/google/uuid"
	"github.com/openacid/slimarray/polyfit"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"

	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/trapq"
)

// Number is the set of raw sample types a capture device may hand the
// tuning pipeline (integer ADC counts or already-converted floats).
type Number interface {
	constraints.Float | constraints.Integer
}

// IngestAxis extracts one axis of accel_values (spec.md §6) as a
// float64 slice, generically over the sample's stored numeric type —
// the same ingestion shape as the teacher's ProcessRecording[T Number].
func IngestAxis[T Number](samples []T) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	return out
}

// Recommendation is the tuning pipeline's output: the kernel parameters
// an operator (or an automated tuning UI) should feed into
// smoothcore.AxisSmoother.SetParams / AxisSmoother.SetKernel.
type Recommendation struct {
	SessionId uuid.UUID

	Family kernel.Family
	F      float64 // Hz
	Zeta   float64

	Halfcycles []Halfcycle
	DecayFit   *polygo.RealPolynomial

	HistogramBins   []float64
	HistogramCounts []int
}

// Analyze runs the full ringdown pipeline: denoise, segment into
// half-cycles, estimate frequency and damping, fit a decay envelope, and
// package the result as a kernel recommendation for the requested
// family. rate is the capture sample rate in Hz.
func Analyze(raw []float64, rate float64, family kernel.Family) (*Recommendation, error) {
	if len(raw) < 8 {
		return nil, errors.New("tuning: capture too short to analyze")
	}
	if rate <= 0 {
		return nil, errors.New("tuning: invalid sample rate")
	}

	smoothed, err := denoise(raw, rate)
	if err != nil {
		return nil, errors.Wrap(err, "Analyze")
	}

	halfcycles := SegmentRingdown(smoothed, rate)
	oscillating := make([]Halfcycle, 0, len(halfcycles))
	for _, h := range halfcycles {
		if h.PeakAbs >= noiseFloor {
			oscillating = append(oscillating, h)
		}
	}
	if len(oscillating) < 3 {
		return nil, errors.New("tuning: not enough oscillating half-cycles to estimate frequency")
	}

	f := estimateFrequency(oscillating)
	zeta := estimateDamping(oscillating)

	fit, err := fitDecayEnvelope(oscillating)
	if err != nil {
		return nil, errors.Wrap(err, "Analyze")
	}

	bins, counts := Histogram(smoothed, stepFor(smoothed))

	session := uuid.New()
	log.Debug().
		Str("session", session.String()).
		Float64("f", f).Float64("zeta", zeta).
		Int("halfcycles", len(oscillating)).
		Msg("tuning: ringdown analysis complete")

	return &Recommendation{
		SessionId:       session,
		Family:          family,
		F:               f,
		Zeta:            zeta,
		Halfcycles:      oscillating,
		DecayFit:        fit,
		HistogramBins:   bins,
		HistogramCounts: counts,
	}, nil
}

// denoise runs the capture through DenoiseWithKernel before segmentation.
// The cutoff (rate/20) is fixed independently of the ringdown's own
// frequency, which isn't known yet at this point in the pipeline: it
// only needs to be wide enough to remove single-sample ADC noise and
// narrow enough to leave a real mechanical ringdown's oscillation
// untouched, and DFAF05's flat passband null does that without phase
// distortion.
func denoise(raw []float64, rate float64) ([]float64, error) {
	k, err := kernel.New(kernel.FamilyDFAF05, rate/20, 0)
	if err != nil {
		return nil, err
	}
	return DenoiseWithKernel(raw, rate, k)
}

// estimateFrequency derives the ringdown's dominant frequency from the
// mean half-cycle duration: a full period spans two half-cycles.
func estimateFrequency(hc []Halfcycle) float64 {
	durations := make([]float64, len(hc))
	for i, h := range hc {
		durations[i] = h.Duration
	}
	meanHalf := floats.Sum(durations) / float64(len(durations))
	if meanHalf <= 0 {
		return 0
	}
	return 1.0 / (2.0 * meanHalf)
}

// estimateDamping applies the logarithmic-decrement method across
// same-sign peaks one full cycle apart (every second half-cycle).
func estimateDamping(hc []Halfcycle) float64 {
	var deltas []float64
	for i := 0; i+2 < len(hc); i += 2 {
		p0, p1 := hc[i].PeakAbs, hc[i+2].PeakAbs
		if p0 <= 0 || p1 <= 0 || p1 >= p0 {
			continue
		}
		deltas = append(deltas, math.Log(p0/p1))
	}
	if len(deltas) == 0 {
		return 0
	}
	delta := floats.Sum(deltas) / float64(len(deltas))
	return delta / math.Sqrt(4*math.Pi*math.Pi+delta*delta)
}

// fitDecayEnvelope fits a cubic to the half-cycle peak amplitudes over
// time, the same polyfit+polygo pairing the teacher uses for its
// leverage-ratio curve, repurposed to describe how quickly the
// oscillation is decaying.
func fitDecayEnvelope(hc []Halfcycle) (*polygo.RealPolynomial, error) {
	t := make([]float64, len(hc))
	peak := make([]float64, len(hc))
	cursor := 0.0
	for i, h := range hc {
		t[i] = cursor
		peak[i] = h.PeakAbs
		cursor += h.Duration
	}
	degree := 3
	if len(hc) <= degree {
		degree = len(hc) - 1
	}
	if degree < 1 {
		return nil, fmt.Errorf("tuning: not enough half-cycles to fit a decay envelope")
	}
	f := polyfit.NewFit(t, peak, degree)
	return polygo.NewRealPolynomial(f.Solve())
}

// stepFor picks a histogram bin width proportional to the data's own
// spread, avoiding a fixed constant that would be meaningless across
// very different accelerometer full-scale ranges.
func stepFor(data []float64) float64 {
	if len(data) == 0 {
		return 1
	}
	spread := floats.Max(data) - floats.Min(data)
	if spread <= 0 {
		return 1
	}
	return spread / 20.0
}

// AxisSamples extracts one Cartesian/extruder axis out of an
// AccelValues capture (spec.md §6), dispatching on trapq.Axis.
func AxisSamples(av trapq.AccelValues, axis trapq.Axis) []float64 {
	switch axis {
	case trapq.AxisX:
		return av.Ax
	case trapq.AxisY:
		return av.Ay
	default:
		return av.Az
	}
}
