// Package convolve implements the weighted integrator and windowed
// convolver (spec.md §4.3-4.4): the numerically delicate core that
// convolves a move's progress polynomial with an active smoother kernel.
package convolve

import (
	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/scurve"
)

// IntegrateWeighted computes
//
//	I = ∫[start,end] (p0 + s(τ)) · w(τ + toff) dτ
//
// choosing between Expansion A (expand w around the move) and Expansion B
// (expand s around the window) per spec.md §4.3's toff² vs h² split.
// Higher-order (even-only) kernels always take the Expansion B path: they
// have no odd c1 term and their closed form is well-conditioned for any
// toff, so the branch split only matters for the compact kernel.
func IntegrateWeighted(sm *kernel.Kernel, p0 float64, s scurve.Polynomial, start, end, toff float64) float64 {
	if sm.Disabled() {
		return p0 + s.Integrate(start, end)
	}
	if sm.HasOdd && toff*toff <= sm.H2 {
		return expansionA(sm, p0, s, start, end, toff)
	}
	return expansionB(sm, p0, s, start, end, toff)
}

// IntegrateWeightedQuadratic is the trapezoid-segment convenience form
// spec.md §4.3 names directly (p(t) = p0 + v0·t + ½a·t², no S-curve): a
// quadratic is just a Polynomial with only C1/C2 populated, so this
// reuses the same unified integrator rather than a second code path.
func IntegrateWeightedQuadratic(sm *kernel.Kernel, p0, v0, halfA, start, end, toff float64) float64 {
	return IntegrateWeighted(sm, p0, scurve.Polynomial{C1: v0, C2: halfA}, start, end, toff)
}

// expansionA expands w(τ+toff) as a low-degree polynomial in τ and
// integrates each term against s via tn_antiderivative. Stable near
// toff == 0 (the window is close to or inside the move), where
// Expansion B's shift-and-recenter would cancel catastrophically.
func expansionA(sm *kernel.Kernel, p0 float64, s scurve.Polynomial, start, end, toff float64) float64 {
	c1, c2 := sm.C1, sm.C2
	// w(τ+toff) = c2·τ² + (2·c2·toff + c1)·τ + (c2·toff² + c1·toff), the
	// compact kernel being purely quadratic in its own argument.
	k2 := c2
	k1 := 2*c2*toff + c1
	k0 := c2*toff*toff + c1*toff

	sTerm := k2*(s.TnAntiderivative(2, end)-s.TnAntiderivative(2, start)) +
		k1*(s.TnAntiderivative(1, end)-s.TnAntiderivative(1, start)) +
		k0*(s.TnAntiderivative(0, end)-s.TnAntiderivative(0, start))

	p0Term := p0 * (sm.Antideriv(end+toff) - sm.Antideriv(start+toff))

	return p0Term + sTerm
}

// expansionB expands s around the window centre (μ = τ+toff) and
// integrates each resulting coefficient against the kernel's own
// precomputed antiderivative iwtn. Stable far from the move origin,
// which is always the case for every even-only higher-order kernel and
// for the compact kernel once toff² > h².
func expansionB(sm *kernel.Kernel, p0 float64, s scurve.Polynomial, start, end, toff float64) float64 {
	shifted := s.Offset(-toff)
	p0b := p0 + shifted.C0
	shifted.C0 = 0

	a, b := start+toff, end+toff
	p0Term := p0b * (sm.Antideriv(b) - sm.Antideriv(a))

	coeffs := [6]float64{shifted.C1, shifted.C2, shifted.C3, shifted.C4, shifted.C5, shifted.C6}
	sum := 0.0
	for k, ck := range coeffs {
		if ck == 0 {
			continue
		}
		n := k + 1
		sum += ck * (sm.Iwtn(n, b) - sm.Iwtn(n, a))
	}
	return p0Term + sum
}
