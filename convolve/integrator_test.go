package convolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/nonanon1/smoothcore/kernel"
	"github.com/nonanon1/smoothcore/scurve"
)

// property 1: constant preservation.
func TestConstantPreservation(t *testing.T) {
	families := []kernel.Family{kernel.Family2ndOrder, kernel.FamilyShortest, kernel.FamilySIFP05, kernel.FamilyDFAF05, kernel.FamilyDFAF01}
	for _, fam := range families {
		k, err := kernel.New(fam, 50, 0.1)
		require.NoError(t, err)
		p0 := 7.25
		for _, t0 := range []float64{0, k.H / 2, 0.03} {
			got := IntegrateWeighted(k, p0, scurve.Polynomial{}, t0-k.H, t0+k.H, -t0)
			assert.InDeltaf(t, p0, got, 1e-9, "family=%d t=%v", fam, t0)
		}
	}
}

// property 2: linear preservation for c1==0 (all higher-order families).
func TestLinearPreservation(t *testing.T) {
	families := []kernel.Family{kernel.FamilyShortest, kernel.FamilySIFP05, kernel.FamilyDFAF05, kernel.FamilyDFAF01}
	A, B := 2.0, 15.0
	for _, fam := range families {
		k, err := kernel.New(fam, 50, 0)
		require.NoError(t, err)
		t0 := 0.5
		s := scurve.Polynomial{C1: B}
		got := IntegrateWeighted(k, A, s, t0-k.H, t0+k.H, -t0)
		want := A + B*t0
		assert.InDeltaf(t, want, got, 1e-8, "family=%d", fam)
	}
}

// property 3: vibration rejection — residual amplitude of a convolved
// sinusoid at the kernel's own target frequency stays within the
// family's stated tolerance.
func TestVibrationRejection(t *testing.T) {
	cases := []struct {
		fam  kernel.Family
		tol  float64
	}{
		{kernel.FamilyDFAF01, 0.01},
		{kernel.FamilyDFAF02, 0.02},
		{kernel.FamilyDFAF05, 0.05},
	}
	f := 60.0
	for _, c := range cases {
		k, err := kernel.New(c.fam, f, 0.1)
		require.NoError(t, err)

		// amplitude of the convolved unit sinusoid: |∫ e^{i2πfx}·w(x) dx|.
		cosPart := quad.Fixed(func(x float64) float64 {
			return math.Cos(2*math.Pi*f*x) * k.Eval(x)
		}, -k.H, k.H, 1000, quad.Legendre{}, 0)
		sinPart := quad.Fixed(func(x float64) float64 {
			return math.Sin(2*math.Pi*f*x) * k.Eval(x)
		}, -k.H, k.H, 1000, quad.Legendre{}, 0)
		residual := math.Hypot(cosPart, sinPart)

		assert.LessOrEqualf(t, math.Abs(residual), c.tol, "family=%d residual=%v", c.fam, residual)
	}
}

// property 4: branch equivalence near toff^2 == h^2.
func TestBranchEquivalenceNearBoundary(t *testing.T) {
	k, err := kernel.New(kernel.Family2ndOrder, 50, 0.15)
	require.NoError(t, err)
	s := scurve.Polynomial{C1: 80, C2: -40, C3: 5}
	p0 := 3.0

	for _, eps := range []float64{-1e-6, 1e-6, -1e-4, 1e-4} {
		toff := k.H + eps
		a := expansionA(k, p0, s, -0.01, 0.01, toff)
		b := expansionB(k, p0, s, -0.01, 0.01, toff)
		assert.InDeltaf(t, a, b, math.Abs(a)*1e-9+1e-9, "eps=%v", eps)
	}
}

func TestIntegrateWeightedQuadraticMatchesPolynomial(t *testing.T) {
	k, err := kernel.New(kernel.FamilyDFAF05, 40, 0)
	require.NoError(t, err)
	got := IntegrateWeightedQuadratic(k, 1.0, 10.0, 2.5, -0.01, 0.01, 0.002)
	want := IntegrateWeighted(k, 1.0, scurve.Polynomial{C1: 10.0, C2: 2.5}, -0.01, 0.01, 0.002)
	assert.Equal(t, want, got)
}
