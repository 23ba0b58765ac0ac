package iir

// Sample rate and test tone the LowPass3k20k preset was designed for.
const (
	PresetSampleRate    = 20000.0
	PresetTestFrequency = 1000.0
)

// LowPass3k20k returns the second-order 3 kHz Butterworth low-pass
// discretized by impulse invariance at 20 kHz.
func LowPass3k20k() Coefficients {
	return Coefficients{
		B: []float64{0, 0.020198, 0},
		A: []float64{1, -1.788622, 0.808858},
	}
}
