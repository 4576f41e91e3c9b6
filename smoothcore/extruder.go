package smoothcore

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nonanon1/smoothcore/scurve"
	"github.com/nonanon1/smoothcore/trapq"
)

// ExtruderSmoother implements the triangular-window pressure-advance
// convolver (spec.md §4.6). The zero value is the {disabled} state: h
// == 0 until SetSmoothTime is called.
type ExtruderSmoother struct {
	h, hInv2 float64
	preActive, postActive float64

	queue      trapq.Queue
	generation uuid.UUID
}

// NewExtruderSmoother returns a disabled extruder handle, matching
// spec.md §6's allocate_extruder_stepper.
func NewExtruderSmoother() *ExtruderSmoother {
	return &ExtruderSmoother{generation: uuid.New()}
}

// SetSmoothTime sets h = smoothTime/2, precomputes 1/h², and updates the
// pre/post margins (spec.md §4.6). smoothTime <= 0 disables smoothing.
func (e *ExtruderSmoother) SetSmoothTime(smoothTime float64) {
	if smoothTime <= 0 {
		e.h, e.hInv2 = 0, 0
		e.preActive, e.postActive = 0, 0
	} else {
		e.h = smoothTime / 2
		e.hInv2 = 1 / (e.h * e.h)
		e.preActive, e.postActive = e.h, e.h
	}
	e.generation = uuid.New()
	log.Debug().Str("generation", e.generation.String()).Float64("h", e.h).Msg("smoothcore: extruder smooth time reconfigured")
}

func (e *ExtruderSmoother) PreActiveMargin() float64  { return e.preActive }
func (e *ExtruderSmoother) PostActiveMargin() float64 { return e.postActive }

// AddMove is the producer-side API (spec.md §4.6's add_extruder_move):
// it de-skews print_time per the planner's acceleration-compensation
// state, then enqueues a move into the extruder's private trapezoid
// queue with progress scaled by extrudeR and the pressure-advance factor
// stashed in AxesR[trapq.AxisY] (matching the teacher's convention of
// repurposing an unused axis-ratio slot for a scalar parameter).
func (e *ExtruderSmoother) AddMove(printTime, startEPos, extrudeR, pressureAdvance float64, s scurve.Polynomial, moveT float64, ad trapq.AccelDecel) {
	m := &trapq.Move{
		MoveT:     moveT,
		PrintTime: ad.EffectiveStartTime(printTime),
		StartPos:  [3]float64{0, 0, startEPos},
		AxesR:     [3]float64{0, pressureAdvance, extrudeR},
		SCurve:    s,
	}
	e.queue.PushBack(m)
}

// CalcPosition evaluates the smoothed extruder position at time t inside
// move m (spec.md §4.6). When h == 0 (disabled), it falls back to
// start_pos + distance(t) directly.
func (e *ExtruderSmoother) CalcPosition(m *trapq.Move, t float64) float64 {
	r := m.AxesR[trapq.AxisE]
	if e.h == 0 {
		return m.StartPos[trapq.AxisE] + r*m.SCurve.Eval(t)
	}

	// Left half: ∫[t-h, t] (x-(t-h))·p_pa(x) dx
	left := e.triangleHalf(m, t-e.h, t, t-e.h, false)
	// Right half: ∫[t, t+h] ((t+h)-x)·p_pa(x) dx
	right := e.triangleHalf(m, t, t+e.h, t+e.h, true)

	return e.hInv2 * (left + right)
}

// triangleHalf walks the queue across [lo, hi] accumulating the ramp
// function against p_pa = p_nom + alpha*p_nom', where the ramp is
// (x - edge) if falling is false (rising ramp from the left edge) or
// (edge - x) if falling is true (falling ramp to the right edge). Each
// move contributes with its own extrude_r/pressure_advance (AxesR[E]/
// AxesR[Y]), read fresh per move rather than inherited from the
// originally-queried move, since a window can cross into a move with a
// different ratio (e.g. a retract segment).
//
// Expressed as a weighted sum of scurve_integrate/scurve_integrate_t of
// the nominal progress and of scurve_diff's coefficients, walked move by
// move exactly as range_integrate (spec.md §4.4) walks the main window.
func (e *ExtruderSmoother) triangleHalf(m *trapq.Move, lo, hi, edge float64, falling bool) float64 {
	total := 0.0
	cur := m
	segLo, segHi := lo, hi
	edgeM := edge

	for {
		a := clampE(segLo, 0, cur.MoveT)
		b := clampE(segHi, 0, cur.MoveT)
		if b > a {
			total += e.segmentContribution(cur, a, b, edge, falling)
		}
		if segHi <= cur.MoveT {
			break
		}
		n := cur.Next
		if n == nil {
			break
		}
		segLo -= cur.MoveT
		segHi -= cur.MoveT
		edge -= cur.MoveT
		cur = n
	}
	// The backward walk starts again from m: the loop above has already
	// covered m and every move after it.
	cur, segLo, segHi, edge = m, lo, hi, edgeM
	for segLo < 0 {
		p := cur.Prev
		if p == nil {
			break
		}
		segLo += p.MoveT
		segHi += p.MoveT
		edge += p.MoveT
		a := clampE(segLo, 0, p.MoveT)
		b := p.MoveT
		if b > a {
			total += e.segmentContribution(p, a, b, edge, falling)
		}
		cur = p
	}
	return total
}

// segmentContribution integrates the ramp·p_pa term over one move's
// local [a,b], where p_pa(x) = p0 + r·s(x) + alpha·r·s'(x) (p0 being the
// move's own start-E-position, r and alpha its own extrude ratio and
// pressure-advance factor, s its own progress curve).
func (e *ExtruderSmoother) segmentContribution(m *trapq.Move, a, b, edge float64, falling bool) float64 {
	r := m.AxesR[trapq.AxisE]
	alpha := m.AxesR[trapq.AxisY]
	p0 := m.StartPos[trapq.AxisE]
	s := m.SCurve
	sPrime := s.Derivative()

	// ramp(x) = x - edge (rising) or edge - x (falling), i.e. ramp1*x+ramp0.
	var ramp0, ramp1 float64
	if falling {
		ramp1, ramp0 = -1, edge
	} else {
		ramp1, ramp0 = 1, -edge
	}
	rampIntegral := ramp1*(b*b-a*a)/2 + ramp0*(b-a)

	nominal := p0*rampIntegral + ramp1*r*s.IntegrateT(a, b) + ramp0*r*s.Integrate(a, b)

	velocity := 0.0
	if alpha != 0 {
		velocity = alpha * (ramp1*r*sPrime.IntegrateT(a, b) + ramp0*r*sPrime.Integrate(a, b))
	}

	return nominal + velocity
}

func clampE(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
