package smoothcore

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/nonanon1/smoothcore/convolve"
	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/trapq"
)

// InnerKinematics is the forward-kinematics callback the axis wrapper
// dispatches into. spec.md §9's DESIGN NOTES flags the original's
// scratch-move/DUMMY_T pattern as a wart; this interface is the
// suggested replacement — splitting "interpret the move at a local
// time" (CalcPosition, used when no smoothing applies) from "use a
// precomputed start position directly" (PositionFromStart, used once
// the convolver has already produced the smoothed axis values) so the
// wrapper never needs to forge a move at all.
type InnerKinematics interface {
	UsesX() bool
	UsesY() bool
	CalcPosition(move *trapq.Move, t float64) float64
	PositionFromStart(startPos [3]float64) float64
}

// AxisSmoother adapts the windowed convolver into a stepper-kinematics
// forward-position query (spec.md §4.5), maintaining independent X/Y
// kernels. The zero value is usable: both axes start unsmoothed.
type AxisSmoother struct {
	kx, ky *kernel.Kernel
	inner  InnerKinematics

	preActive, postActive float64

	generation uuid.UUID
}

// NewAxisSmoother returns a handle with both axes un-smoothed, matching
// spec.md §6's allocate_axis_smoother (minus the DUMMY_T scratch move —
// see InnerKinematics's doc comment).
func NewAxisSmoother() *AxisSmoother {
	return &AxisSmoother{generation: uuid.New()}
}

// SetParams replaces each axis kernel, or clears it when f == 0, and
// recomputes the pre/post active margins as the max h among active axes
// (spec.md §4.5). Infallible for valid (non-negative) inputs, per
// spec.md §4.5's failure-mode note.
func (a *AxisSmoother) SetParams(fx, zetaX, fy, zetaY float64) {
	a.kx = activeKernel(fx, zetaX)
	a.ky = activeKernel(fy, zetaY)

	margin := 0.0
	if a.kx != nil && !a.kx.Disabled() && a.usesX() {
		margin = a.kx.H
	}
	if a.ky != nil && !a.ky.Disabled() && a.usesY() && a.ky.H > margin {
		margin = a.ky.H
	}
	a.preActive, a.postActive = margin, margin
	a.generation = uuid.New()

	log.Debug().
		Str("generation", a.generation.String()).
		Float64("fx", fx).Float64("fy", fy).
		Float64("pre_active", a.preActive).Float64("post_active", a.postActive).
		Msg("smoothcore: axis smoother reconfigured")
}

func activeKernel(f, zeta float64) *kernel.Kernel {
	if f <= 0 {
		return &kernel.Kernel{Family: kernel.FamilyNone}
	}
	k, err := kernel.New(kernel.Family2ndOrder, f, zeta)
	if err != nil {
		return &kernel.Kernel{Family: kernel.FamilyNone}
	}
	return k
}

// SetKernel installs an explicit catalog kernel on one axis (used by
// higher-order families, which SetParams's compact-kernel shortcut does
// not reach) — callers building an X/Y pair from the full catalog use
// this instead of SetParams.
func (a *AxisSmoother) SetKernel(axis trapq.Axis, k *kernel.Kernel) {
	switch axis {
	case trapq.AxisX:
		a.kx = k
	case trapq.AxisY:
		a.ky = k
	}
	a.recomputeMargins()
	a.generation = uuid.New()
}

func (a *AxisSmoother) recomputeMargins() {
	margin := 0.0
	if a.kx != nil && !a.kx.Disabled() && a.usesX() && a.kx.H > margin {
		margin = a.kx.H
	}
	if a.ky != nil && !a.ky.Disabled() && a.usesY() && a.ky.H > margin {
		margin = a.ky.H
	}
	a.preActive, a.postActive = margin, margin
}

// SetInnerKinematics records the inner forward-kinematics callback. It
// returns ErrNoApplicableAxis (spec.md §8 S6) if inner declares use of
// neither X nor Y, leaving the handle's prior inner kinematics in place.
func (a *AxisSmoother) SetInnerKinematics(inner InnerKinematics) error {
	if inner == nil || (!inner.UsesX() && !inner.UsesY()) {
		return errors.Wrap(ErrNoApplicableAxis, "SetInnerKinematics")
	}
	a.inner = inner
	a.recomputeMargins()
	return nil
}

func (a *AxisSmoother) usesX() bool { return a.inner != nil && a.inner.UsesX() }
func (a *AxisSmoother) usesY() bool { return a.inner != nil && a.inner.UsesY() }

// PreActiveMargin and PostActiveMargin report how far before/after the
// queried time the solver must keep moves allocated (spec.md §3).
func (a *AxisSmoother) PreActiveMargin() float64  { return a.preActive }
func (a *AxisSmoother) PostActiveMargin() float64 { return a.postActive }

// CalcPosition is the hot path (spec.md §4.5's calc_position): if
// neither axis has an active kernel it delegates straight to the inner
// kinematics against the real move; otherwise it convolves the
// configured axes and hands the inner kinematics the resulting start
// position directly.
func (a *AxisSmoother) CalcPosition(m *trapq.Move, t float64) float64 {
	activeX := a.kx != nil && !a.kx.Disabled() && a.usesX()
	activeY := a.ky != nil && !a.ky.Disabled() && a.usesY()
	if !activeX && !activeY {
		return a.inner.CalcPosition(m, t)
	}

	startPos := m.StartPos
	if activeX {
		startPos[trapq.AxisX] = convolve.RangeIntegrate(m, trapq.AxisX, t, a.kx)
	}
	if activeY {
		startPos[trapq.AxisY] = convolve.RangeIntegrate(m, trapq.AxisY, t, a.ky)
	}
	return a.inner.PositionFromStart(startPos)
}
