package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/lpfsim/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates amplitude*sin(2*pi*freqHz*n/fs) for n = 0..samples-1.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	src := NewSineSource(g.cfg.SampleRate, freqHz, amplitude)
	for i := range out {
		out[i] = src.Next()
	}
	return out, nil
}

// Impulse generates a unit impulse at n = 0 followed by zeros.
func (g *Generator) Impulse(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	out[0] = 1
	return out, nil
}

// Step generates a constant level starting at n = 0.
func (g *Generator) Step(level float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("step samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = level
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Peak returns the largest absolute sample value.
func Peak(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	return maxAbs
}
