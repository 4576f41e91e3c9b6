package smoothcore

import "github.com/nonanon1/smoothcore/kernel"

// AllocateAxisSmoother returns a handle with both axes un-smoothed,
// spec.md §6's allocate_axis_smoother.
func AllocateAxisSmoother() *AxisSmoother {
	return NewAxisSmoother()
}

// AllocateExtruderStepper returns a disabled extruder handle, spec.md
// §6's allocate_extruder_stepper.
func AllocateExtruderStepper() *ExtruderSmoother {
	return NewExtruderSmoother()
}

// HalfSmoothTime exposes h for planner margin calculations (spec.md §6's
// get_axis_half_smooth_time), computed via the compact 2nd-order kernel
// since that is the shape set_axis_smoother_params installs.
func HalfSmoothTime(f, zeta float64) float64 {
	if f <= 0 {
		return 0
	}
	k, err := kernel.New(kernel.Family2ndOrder, f, zeta)
	if err != nil {
		return 0
	}
	return k.H
}
