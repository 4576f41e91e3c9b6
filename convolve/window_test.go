package convolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/scurve"
	"github.com/nonanon1/smoothcore/trapq"
)

func chainMoves(moveT, v float64, n int) *trapq.Move {
	var first, prev *trapq.Move
	pos := 0.0
	for i := 0; i < n; i++ {
		m := &trapq.Move{
			MoveT:    moveT,
			StartPos: [3]float64{pos, 0, 0},
			AxesR:    [3]float64{1, 0, 0},
			SCurve:   scurve.Polynomial{C1: v},
		}
		if prev != nil {
			prev.Next = m
			m.Prev = prev
		} else {
			first = m
		}
		pos += v * moveT
		prev = m
	}
	return first
}

// property 5: cross-move continuity for equal position/velocity at the
// boundary (a constant-velocity chain has both).
func TestCrossMoveContinuity(t *testing.T) {
	k, err := kernel.New(kernel.FamilyDFAF05, 80, 0)
	require.NoError(t, err)

	first := chainMoves(0.05, 100, 4)
	// boundary between move 2 and move 3 sits at global time 0.10; walk
	// to the second move and query right at its end.
	m2 := first.Next
	boundary := m2.MoveT

	before := RangeIntegrate(m2, trapq.AxisX, boundary-1e-7, k)
	after := RangeIntegrate(m2.Next, trapq.AxisX, 1e-7, k)
	assert.InDelta(t, before, after, 1e-6)
}

// S2: accel from 0 to 100mm/s over 0.05s then cruise 0.05s, SIAF05 at
// 40Hz, boundary query at t=0.05 cross-checked against a high-resolution
// numerical oracle independent of RangeIntegrate's own implementation.
func TestS2AccelThenCruiseAgainstNumericOracle(t *testing.T) {
	k, err := kernel.New(kernel.FamilySIAF05, 40, 0)
	require.NoError(t, err)

	// move1: a=2000mm/s^2, s(x)=1000x^2, v(0.05)=100mm/s.
	move1 := &trapq.Move{
		MoveT:    0.05,
		StartPos: [3]float64{0, 0, 0},
		AxesR:    [3]float64{1, 0, 0},
		SCurve:   scurve.Polynomial{C2: 1000},
	}
	// move2: cruise at 100mm/s, starting where move1 ends (1000*0.05^2=2.5).
	move2 := &trapq.Move{
		MoveT:    0.05,
		StartPos: [3]float64{2.5, 0, 0},
		AxesR:    [3]float64{1, 0, 0},
		SCurve:   scurve.Polynomial{C1: 100},
	}
	move1.Next = move2
	move2.Prev = move1

	got := RangeIntegrate(move2, trapq.AxisX, 0, k)

	h := k.H
	require.Less(t, h, 0.05, "window must stay within the two adjacent moves")

	// Numeric oracle: directly integrate the piecewise-linear/quadratic
	// global position against the kernel weight, independent of
	// IntegrateWeighted's closed-form expansion.
	oracle := quad.Fixed(func(tau float64) float64 {
		var pos float64
		if tau < 0 {
			local := 0.05 + tau // still inside move1
			pos = 1000 * local * local
		} else {
			pos = 2.5 + 100*tau // inside move2
		}
		return pos * k.Eval(tau)
	}, -h, h, 5000, quad.Legendre{}, 0)

	assert.InDelta(t, oracle, got, 1e-7)
}

func TestRangeIntegrateDisabledPassesThrough(t *testing.T) {
	m := &trapq.Move{MoveT: 0.1, StartPos: [3]float64{2, 0, 0}, AxesR: [3]float64{1, 0, 0}, SCurve: scurve.Polynomial{C1: 10}}
	k := &kernel.Kernel{Family: kernel.FamilyNone}
	got := RangeIntegrate(m, trapq.AxisX, 0.05, k)
	assert.InDelta(t, m.Pos(trapq.AxisX, 0.05), got, 1e-12)
}
