// Package trapq models the read-only move queue the motion-smoothing core
// consumes. The real trapezoid queue — allocation, lookahead, lifetime
// management — is owned by the host planner and explicitly out of scope
// here (see spec.md §1); this package exists only so the core has a
// concrete, testable stand-in for "the external collaborator."
package trapq

import "github.com/nonanon1/smoothcore/scurve"

// Move is one piecewise-polynomial segment of motion. Local time 0
// corresponds to the instant immediately following the previous move's
// terminal instant.
type Move struct {
	MoveT     float64 // duration, > 0
	PrintTime float64 // global start time, informational only (queue ordering)

	StartPos [3]float64 // start position vector (x, y, e)
	AxesR    [3]float64 // direction ratios applied to the progress curve

	SCurve scurve.Polynomial

	Prev *Move
	Next *Move
}

// Axis identifies which Cartesian/extruder axis a query concerns.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisE
)

// Pos returns the move's progress-scaled position along axis at local time tau.
func (m *Move) Pos(axis Axis, tau float64) float64 {
	return m.StartPos[axis] + m.AxesR[axis]*m.SCurve.Eval(tau)
}

// Queue is an append-only, doubly-linked sequence of moves. It is the
// minimal stand-in for the host planner's trapq: real deployments keep
// moves alive across the active smoothing window and free them later: an
// invariant this package only documents, since memory management of
// planner-owned moves is out of scope (spec.md §1).
type Queue struct {
	head *Move
	tail *Move
}

// PushBack appends a move, linking it to the current tail. It allocates
// nothing itself; a nil move panics rather than returning an error.
func (q *Queue) PushBack(m *Move) {
	if m == nil {
		panic("trapq: nil move")
	}
	m.Prev = q.tail
	m.Next = nil
	if q.tail != nil {
		q.tail.Next = m
	} else {
		q.head = m
	}
	q.tail = m
}

// Front returns the oldest move still in the queue, or nil if empty.
func (q *Queue) Front() *Move { return q.head }

// Back returns the most recently pushed move, or nil if empty.
func (q *Queue) Back() *Move { return q.tail }

// AccelDecel carries the subset of the host planner's acceleration
// trapezoid the extruder wrapper needs to de-skew acceleration-compensated
// print times (spec.md §4.6, §8 property 8).
type AccelDecel struct {
	AccelCompensation bool
	AccelOffsetT      float64
	UncompAccelOffsetT float64
	DecelOffsetT      float64
	UncompDecelOffsetT float64
	InAccelSegment    bool
	InDecelSegment    bool
}

// EffectiveStartTime returns the de-skewed print time an extruder move
// should be enqueued at, per spec.md §8 property 8.
func (a AccelDecel) EffectiveStartTime(printTime float64) float64 {
	if !a.AccelCompensation {
		return printTime
	}
	if a.InAccelSegment {
		return printTime + a.UncompAccelOffsetT - a.AccelOffsetT
	}
	if a.InDecelSegment {
		return printTime + a.UncompDecelOffsetT - a.DecelOffsetT
	}
	return printTime
}

// AccelValues is the fixed-length tri-axis acceleration sample record
// spec.md §6 names for the tuning UI; the core never reads it.
type AccelValues struct {
	N  int
	T  []float64
	Ax []float64
	Ay []float64
	Az []float64
}
