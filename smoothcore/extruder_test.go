package smoothcore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonanon1/smoothcore/scurve"
	"github.com/nonanon1/smoothcore/trapq"
)

func cruiseMove(v float64, moveT float64, pa float64) *trapq.Move {
	return &trapq.Move{
		MoveT:    moveT,
		StartPos: [3]float64{0, 0, 0},
		AxesR:    [3]float64{0, pa, 1},
		SCurve:   scurve.Polynomial{C1: v},
	}
}

// property 6 / S3: alpha==0, constant velocity, smoothed == nominal.
func TestS3TriangularWindowNoAlpha(t *testing.T) {
	e := NewExtruderSmoother()
	e.SetSmoothTime(0.08) // h = 0.04

	m := cruiseMove(50, 1.0, 0)
	t0 := 0.5
	got := e.CalcPosition(m, t0)
	want := 50.0 * t0
	assert.InDelta(t, want, got, 1e-9)
}

// property 7: steady-state cruise with alpha>0 still equals nominal once
// the window is fully inside a constant-velocity segment.
func TestSteadyStatePressureAdvanceCancels(t *testing.T) {
	e := NewExtruderSmoother()
	e.SetSmoothTime(0.02) // h = 0.01

	m := cruiseMove(50, 1.0, 0.05)
	t0 := 0.5
	got := e.CalcPosition(m, t0)
	want := 50.0 * t0
	assert.InDelta(t, want, got, 1e-9)
}

// S4: during acceleration, pressure advance boosts the smoothed position
// above nominal.
func TestS4AccelerationBoostsAheadOfNominal(t *testing.T) {
	e := NewExtruderSmoother()
	e.SetSmoothTime(0.02) // h = 0.01

	// 0 -> 100 mm/s over 0.02s: v(t) = 5000*t, s(t) = 2500*t^2.
	m := &trapq.Move{
		MoveT:    0.02,
		StartPos: [3]float64{0, 0, 0},
		AxesR:    [3]float64{0, 0.04, 1},
		SCurve:   scurve.Polynomial{C2: 2500},
	}
	t0 := 0.01
	got := e.CalcPosition(m, t0)
	nominal := m.SCurve.Eval(t0)
	assert.Greaterf(t, got, nominal, "expected pressure-advance boost above nominal, got %v nominal %v", got, nominal)
}

func TestCalcPositionDisabledFallsBack(t *testing.T) {
	e := NewExtruderSmoother()
	m := cruiseMove(20, 0.5, 0.1)
	got := e.CalcPosition(m, 0.2)
	assert.InDelta(t, 20*0.2, got, 1e-12)
}

// A nonzero StartPos[E] (the normal case after the first move of a real
// print) must still be carried through the triangular window: a
// symmetric triangular filter reproduces any degree-<=1 function
// exactly, constant offset included.
func TestNonzeroBaseEPositionIncludedInSmoothedPosition(t *testing.T) {
	e := NewExtruderSmoother()
	e.SetSmoothTime(0.08) // h = 0.04

	m := &trapq.Move{
		MoveT:    1.0,
		StartPos: [3]float64{0, 0, 123.456},
		AxesR:    [3]float64{0, 0, 1},
		SCurve:   scurve.Polynomial{C1: 50},
	}
	t0 := 0.5
	got := e.CalcPosition(m, t0)
	want := 123.456 + 50*t0
	assert.InDelta(t, want, got, 1e-9)
}

// A window that crosses into a neighboring move must use that move's
// own extrude_r (AxesR[E]), not the originally-queried move's.
func TestCrossMoveUsesNeighborsOwnExtrudeRatio(t *testing.T) {
	e := NewExtruderSmoother()
	e.SetSmoothTime(1.0) // h = 0.5

	a := &trapq.Move{
		MoveT:    1.0,
		StartPos: [3]float64{0, 0, 0},
		AxesR:    [3]float64{0, 0, 1},
		SCurve:   scurve.Polynomial{C1: 2},
	}
	b := &trapq.Move{
		MoveT:    1.0,
		StartPos: [3]float64{0, 0, 2}, // continuity: a's end position (r=1 * s(1)=2)
		AxesR:    [3]float64{0, 0, 5},
		SCurve:   scurve.Polynomial{C1: 2},
	}
	a.Next = b
	b.Prev = a

	got := e.CalcPosition(b, 0) // boundary query: window spans both moves
	assert.InDelta(t, 8.0/3.0, got, 1e-9)
}
