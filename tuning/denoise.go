package tuning

import (
	"fmt"
	"math"

	"github.com/nonanon1/smoothcore/kernel"
)

// DenoiseWithKernel applies one of this module's own smoother kernels as
// a zero-phase FIR low-pass filter over a captured sample sequence,
// evaluating w(tau) directly via kernel.Eval rather than reaching for a
// second, unrelated smoothing algorithm: the catalog this module
// already builds for the move-queue convolver (spec.md §4.1) is exactly
// the weighting-function shape a ringdown capture needs denoised with
// too. Each output sample renormalizes the kernel weight it actually
// used (clipped at the capture's edges), so boundary samples aren't
// biased toward zero the way a naive zero-padded convolution would be.
func DenoiseWithKernel(data []float64, rate float64, k *kernel.Kernel) ([]float64, error) {
	if k.Disabled() {
		return nil, fmt.Errorf("tuning: kernel disabled, nothing to denoise with")
	}
	if rate <= 0 {
		return nil, fmt.Errorf("tuning: invalid sample rate %v", rate)
	}
	if len(data) < 3 {
		return nil, fmt.Errorf("tuning: %d samples too short to denoise", len(data))
	}

	dt := 1.0 / rate
	halfSamples := int(math.Ceil(k.H / dt))
	if halfSamples < 1 {
		halfSamples = 1
	}

	out := make([]float64, len(data))
	for i := range data {
		lo, hi := i-halfSamples, i+halfSamples
		if lo < 0 {
			lo = 0
		}
		if hi > len(data)-1 {
			hi = len(data) - 1
		}
		sum, wsum := 0.0, 0.0
		for j := lo; j <= hi; j++ {
			tau := float64(j-i) * dt
			w := k.Eval(tau)
			sum += data[j] * w
			wsum += w
		}
		if wsum == 0 {
			out[i] = data[i]
			continue
		}
		out[i] = sum / wsum
	}
	return out, nil
}
