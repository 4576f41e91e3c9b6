// Package scurve evaluates and integrates the piecewise-polynomial
// progress curves carried by moves (spec.md §4.2). Operations are pure
// polynomial arithmetic: no failure modes, bounded only by input
// magnitude.
package scurve

// Polynomial is an S-curve progress polynomial
//
//	s(tau) = C0 + C1*tau + C2*tau^2 + C3*tau^3 + C4*tau^4 + C5*tau^5 + C6*tau^6
//
// A move's own S-curve always has C0 == 0 (progress starts at zero at
// local time zero); C0 becomes nonzero only as the result of Offset,
// where it carries the value folded out of the shifted origin.
type Polynomial struct {
	C0, C1, C2, C3, C4, C5, C6 float64
}

// Eval returns s(tau) via Horner's method.
func (p Polynomial) Eval(tau float64) float64 {
	return p.C0 + tau*(p.C1+tau*(p.C2+tau*(p.C3+tau*(p.C4+tau*(p.C5+tau*p.C6)))))
}

// binom is the small fixed table of binomial coefficients needed to expand
// (tau+delta)^k for k up to 6.
var binom = [7][7]float64{
	{1},
	{1, 1},
	{1, 2, 1},
	{1, 3, 3, 1},
	{1, 4, 6, 4, 1},
	{1, 5, 10, 10, 5, 1},
	{1, 6, 15, 20, 15, 6, 1},
}

// Offset returns the coefficients of q(tau) = s(tau+delta): the same
// progress curve re-expressed around a shifted local-time origin. Used
// when a convolution window straddles a move boundary (spec.md §4.3,
// Expansion B) or when walking between moves.
func (p Polynomial) Offset(delta float64) Polynomial {
	c := [7]float64{p.C0, p.C1, p.C2, p.C3, p.C4, p.C5, p.C6}
	var out [7]float64
	for k := 0; k <= 6; k++ {
		if c[k] == 0 {
			continue
		}
		pow := 1.0
		for i := 0; i <= k; i++ {
			// term contributes to out[k-i] via C(k,i) * delta^i, placed
			// at degree (k-i) since (tau+delta)^k = sum_i C(k,i) tau^(k-i) delta^i
			out[k-i] += c[k] * binom[k][i] * pow
			pow *= delta
		}
	}
	return Polynomial{out[0], out[1], out[2], out[3], out[4], out[5], out[6]}
}

// CopyScaled returns a copy with every coefficient multiplied by r, used
// to project a move's axis-free progress curve onto one axis via its
// direction ratio.
func (p Polynomial) CopyScaled(r float64) Polynomial {
	return Polynomial{p.C0 * r, p.C1 * r, p.C2 * r, p.C3 * r, p.C4 * r, p.C5 * r, p.C6 * r}
}

// Derivative returns s'(tau), used for the pressure-advance velocity term
// (spec.md §4.6's scurve_diff).
func (p Polynomial) Derivative() Polynomial {
	return Polynomial{p.C1, 2 * p.C2, 3 * p.C3, 4 * p.C4, 5 * p.C5, 6 * p.C6, 0}
}

// Integrate returns the definite integral of s over [a, b].
func (p Polynomial) Integrate(a, b float64) float64 {
	return p.TnAntiderivative(0, b) - p.TnAntiderivative(0, a)
}

// IntegrateT returns the definite integral of tau*s(tau) over [a, b].
func (p Polynomial) IntegrateT(a, b float64) float64 {
	return p.TnAntiderivative(1, b) - p.TnAntiderivative(1, a)
}

// TnAntiderivative returns F(tau), the antiderivative of tau^n * s(tau)
// (constant of integration zero); callers form a definite integral as
// F(b) - F(a).
func (p Polynomial) TnAntiderivative(n int, tau float64) float64 {
	c := [7]float64{p.C0, p.C1, p.C2, p.C3, p.C4, p.C5, p.C6}
	sum := 0.0
	pow := 1.0 // tau^(n+1)
	for i := 0; i <= n; i++ {
		pow *= tau
	}
	for k := 0; k <= 6; k++ {
		if c[k] == 0 {
			pow *= tau
			continue
		}
		sum += c[k] * pow / float64(n+k+1)
		pow *= tau
	}
	return sum
}
