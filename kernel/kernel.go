// Package kernel implements the closed catalog of smoother kernels
// (spec.md §4.1): bounded-support even weighting functions w(τ) used by
// the windowed convolver. Two coefficient shapes exist in the catalog —
// a compact second-order shape carrying a ζ-dependent odd term, and a
// family of higher-order even-only shapes — and New is the only
// constructor, so an invalid Family value is the one input error this
// package can return.
package kernel

import (
	"github.com/SeanJxie/polygo"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Family is the closed set of kernel shapes. The zero value, FamilyNone,
// is the disabled/all-pass sentinel (h == 0, no smoothing applied).
type Family int

const (
	FamilyNone Family = iota
	Family2ndOrder
	FamilyShortest
	FamilySIFP05
	FamilySIAF05
	FamilyDFSF05
	FamilyDFAF05
	FamilyDFAF02
	FamilyDFAF01
)

var ErrUnknownFamily = errors.New("kernel: unknown family")

// Kernel is a fully-parameterized weighting function
//
//	w(τ) = C0 + C1*τ + C2*τ² + C4*τ⁴ + C6*τ⁶,  |τ| <= H
//
// HasOdd is true only for Family2ndOrder, the one shape carrying a
// nonzero C1; every other family is even-only (C1 == 0).
type Kernel struct {
	Family Family
	Order  int // highest populated even power: 2, 4, or 6
	HasOdd bool

	H, H2 float64

	C0, C1, C2, C4, C6 float64
}

// New builds the kernel for family at cutoff frequency f (Hz) and, for
// Family2ndOrder, damping ratio zeta. f <= 0 (or family == FamilyNone)
// yields the disabled kernel (H == 0): callers treat this as "do not
// smooth" rather than an error, matching spec.md §4.5's "smoothing
// disabled" case.
func New(family Family, f, zeta float64) (*Kernel, error) {
	if family == FamilyNone || f <= 0 {
		return &Kernel{Family: FamilyNone}, nil
	}
	switch family {
	case Family2ndOrder:
		return newCompact(f, zeta), nil
	case FamilyShortest:
		return newCatalogEntry(family, f, 0.5, 0.5, 0, 0, 0, 2), nil
	case FamilySIFP05:
		return newCatalogEntry(family, f, 0.45, 0.40533126230926486, 0.28400621307220536, 0, 0, 2), nil
	case FamilySIAF05:
		return newCatalogEntry(family, f, 0.55, 0.5730869661661027, -0.21926089849830796, 0, 0, 2), nil
	case FamilyDFSF05:
		return newCatalogEntry(family, f, 0.65, 0.7758848410019823, -2.6593816197763713, 3.052878494617374, 0, 4), nil
	case FamilyDFAF05:
		return newCatalogEntry(family, f, 0.75, 0.7566294147962078, -1.6630374254972278, 1.4885819685143402, 0, 4), nil
	case FamilyDFAF02:
		return newCatalogEntry(family, f, 0.85, 0.542491035413658, 3.5746310177252623, -15.810945893186467, 13.497081294539841, 6), nil
	case FamilyDFAF01:
		return newCatalogEntry(family, f, 0.95, 0.7187095944896258, 0.33652894899956776, -5.179495710333791, 4.9350926187076025, 6), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFamily, "family=%d", family)
	}
}

// newCompact builds the compact second-order kernel. Its normalization
// integral ∫w = 1 over [-h,h] is satisfied by the c2 term alone (the odd
// c1 term integrates to zero by symmetry and contributes nothing to
// normalization), which forces c0 == 0.
func newCompact(f, zeta float64) *Kernel {
	z2 := zeta * zeta
	h := 0.5 * (0.662586 - 0.0945695*z2) / f
	c1 := (1.681147871689192 - 1.318310718147036*z2) * zeta / (h * h)
	c2 := 1.5 / (h * h * h)
	return &Kernel{
		Family: Family2ndOrder,
		Order:  2,
		HasOdd: true,
		H:      h,
		H2:     h * h,
		C1:     c1,
		C2:     c2,
	}
}

// newCatalogEntry builds a higher-order (or degenerate "shortest")
// even-only kernel at cutoff f from a family's dimensionless tuple
// (h·f, c0·h, c2·h³, c4·h⁵, c6·h⁷) — the catalog's own frozen constants
// (see DESIGN.md decision 1) — by solving h = hf/f and then dividing
// each aₖ back out by the matching power of h.
func newCatalogEntry(family Family, f, hf, a0, a2, a4, a6 float64, order int) *Kernel {
	h := hf / f
	h3 := h * h * h
	h5 := h3 * h * h
	h7 := h5 * h * h
	return &Kernel{
		Family: family,
		Order:  order,
		H:      h,
		H2:     h * h,
		C0:     a0 / h,
		C2:     a2 / h3,
		C4:     a4 / h5,
		C6:     a6 / h7,
	}
}

// Disabled reports whether this kernel applies no smoothing at all
// (FamilyNone / H == 0): callers short-circuit the windowed convolution
// in this case rather than integrating a zero-width window.
func (k *Kernel) Disabled() bool {
	return k == nil || k.Family == FamilyNone || k.H == 0
}

// Eval returns w(tau). Used by tests and by the tuning package's
// denoiser; the hot convolution path never calls it directly,
// working instead through Antideriv/Iwtn closed forms.
func (k *Kernel) Eval(tau float64) float64 {
	t2 := tau * tau
	v := k.C0 + k.C1*tau + k.C2*t2
	if k.Order >= 4 {
		v += k.C4 * t2 * t2
	}
	if k.Order >= 6 {
		v += k.C6 * t2 * t2 * t2
	}
	return v
}

// Antideriv returns W(u), the antiderivative of w with respect to its
// own argument (constant of integration zero): used for the p0 term of
// the weighted integrator, which integrates against w directly.
func (k *Kernel) Antideriv(u float64) float64 {
	v := k.C0*u + k.C1*u*u/2 + k.C2*u*u*u/3
	if k.Order >= 4 {
		v += k.C4 * pow(u, 5) / 5
	}
	if k.Order >= 6 {
		v += k.C6 * pow(u, 7) / 7
	}
	return v
}

// Iwtn returns F(u), the antiderivative of u^n * w(u) (constant of
// integration zero). This is the family-specific closed form spec.md
// §4.3 calls integrate_2th_order/integrate_4th_order/integrate_6th_order:
// the Order check below is exactly that dispatch, skipping the
// higher-degree terms a lower-order family never populates.
func (k *Kernel) Iwtn(n int, u float64) float64 {
	sum := k.C0*pow(u, n+1)/float64(n+1) + k.C1*pow(u, n+2)/float64(n+2) + k.C2*pow(u, n+3)/float64(n+3)
	if k.Order >= 4 {
		sum += k.C4 * pow(u, n+5) / float64(n+5)
	}
	if k.Order >= 6 {
		sum += k.C6 * pow(u, n+7) / float64(n+7)
	}
	return sum
}

// Polynomial returns a polygo.RealPolynomial view of w(τ) (ascending
// coefficient order, ζ folded in), the same representation scurve uses
// for progress curves — useful for diagnostics (plotting a kernel's
// shape, or composing it algebraically with polygo's own operators)
// without duplicating Horner evaluation.
func (k *Kernel) Polynomial() (*polygo.RealPolynomial, error) {
	return polygo.NewRealPolynomial([]float64{k.C0, k.C1, k.C2, 0, k.C4, 0, k.C6})
}

// catalogFamilies lists every non-degenerate family in the closed
// catalog, used by MaxSupportHalfWidth to bound the largest half-width
// any configured kernel could have at a given target frequency.
var catalogFamilies = []Family{
	Family2ndOrder, FamilyShortest, FamilySIFP05, FamilySIAF05,
	FamilyDFSF05, FamilyDFAF05, FamilyDFAF02, FamilyDFAF01,
}

// MaxSupportHalfWidth returns the largest H any catalog family can reach
// at cutoff frequency f (damping ratio swept to its most conservative
// value, ζ=0, since h is monotonically largest there for the compact
// family). Callers size lookahead buffers — how many queue entries must
// stay retained behind the current move — off this worst case rather
// than a single family's H, since a reconfiguration can switch families
// without the queue being rebuilt.
func MaxSupportHalfWidth(f float64) float64 {
	if f <= 0 {
		return 0
	}
	hs := make([]float64, len(catalogFamilies))
	for i, fam := range catalogFamilies {
		k, err := New(fam, f, 0)
		if err != nil {
			continue
		}
		hs[i] = k.H
	}
	return floats.Max(hs)
}

func pow(x float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= x
	}
	return r
}
