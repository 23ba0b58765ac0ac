package iir

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) at the given
// frequency (Hz) and sample rate (Hz). Unlike [Engine.Step], the evaluation
// divides by the full denominator including A[0].
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z1 := cmplx.Exp(complex(0, -w))

	return evalZ(c.B, z1) / evalZ(c.A, z1)
}

// evalZ evaluates sum(p[i] * z1^i) with Horner's method.
func evalZ(p []float64, z1 complex128) complex128 {
	var v complex128
	for i := len(p) - 1; i >= 0; i-- {
		v = v*z1 + complex(p[i], 0)
	}

	return v
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Phase returns the phase response in radians, in [-pi, pi].
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// DCGain returns H(1) = sum(B) / sum(A).
func (c Coefficients) DCGain() float64 {
	var num, den float64
	for _, b := range c.B {
		num += b
	}

	for _, a := range c.A {
		den += a
	}

	return num / den
}
