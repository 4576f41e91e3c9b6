package convolve

import (
	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/trapq"
)

// RangeIntegrate implements spec.md §4.4's range_integrate: it extends the
// single-move weighted integral across neighbouring moves by walking the
// move queue forward and backward across the window [t-h, t+h]. Each
// per-move call clamps its local bounds to [0, move.MoveT] — the move's
// own polynomial is only valid on that range, so a window spanning more
// than one neighbour in a direction is covered by repeated clamped calls
// rather than a single over-range call.
func RangeIntegrate(m *trapq.Move, axis trapq.Axis, t float64, sm *kernel.Kernel) float64 {
	if sm.Disabled() {
		return m.Pos(axis, t)
	}
	h := sm.H
	start := t - h
	end := t + h
	toff := -t

	total := IntegrateWeighted(sm, m.StartPos[axis], m.SCurve.CopyScaled(m.AxesR[axis]), clamp(start, 0, m.MoveT), clamp(end, 0, m.MoveT), toff)

	prev := m
	for start < 0 {
		p := prev.Prev
		if p == nil {
			break
		}
		start += p.MoveT
		toff -= p.MoveT
		total += IntegrateWeighted(sm, p.StartPos[axis], p.SCurve.CopyScaled(p.AxesR[axis]), clamp(start, 0, p.MoveT), p.MoveT, toff)
		prev = p
	}

	toff = -t
	cur := m
	remaining := end
	for remaining > cur.MoveT {
		remaining -= cur.MoveT
		toff += cur.MoveT
		n := cur.Next
		if n == nil {
			break
		}
		cur = n
		total += IntegrateWeighted(sm, cur.StartPos[axis], cur.SCurve.CopyScaled(cur.AxesR[axis]), 0, clamp(remaining, 0, cur.MoveT), toff)
	}

	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
