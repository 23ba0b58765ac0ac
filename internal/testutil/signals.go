package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ramp returns 1, 2, ..., length. Useful for tracing history shifts.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// Mix returns alpha*a + beta*b sample-wise. The result has the length of
// the shorter input.
func Mix(alpha float64, a []float64, beta float64, b []float64) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		out[i] = alpha*a[i] + beta*b[i]
	}
	return out
}
