// Package gain measures the steady-state gain of a filter at a single
// frequency from recorded input and output signals.
//
// Both signals are Hann-windowed over the same trailing block, transformed
// with an FFT, and compared at the bin nearest the test frequency. Since
// the same window and bin are used on both sides, window scalloping and
// coherent gain cancel in the ratio.
package gain

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/lpfsim/dsp/core"
)

var (
	// ErrShortSignal is returned when fewer than FFTSize samples are available.
	ErrShortSignal = errors.New("gain: signal shorter than FFT size")

	// ErrFrequencyRange is returned for frequencies outside (0, Nyquist).
	ErrFrequencyRange = errors.New("gain: frequency outside (0, Nyquist)")

	// ErrSilentInput is returned when the input has no energy at the test bin.
	ErrSilentInput = errors.New("gain: input has no energy at test frequency")
)

// Config holds measurement parameters.
type Config struct {
	SampleRate float64
	FFTSize    int // power of two
}

// Result holds one gain measurement.
type Result struct {
	Frequency       float64 // requested test frequency
	BinFrequency    float64 // center frequency of the analysed bin
	Bin             int
	InputAmplitude  float64 // peak amplitude estimate
	OutputAmplitude float64
	Gain            float64 // OutputAmplitude / InputAmplitude
	GainDB          float64
}

// Calculator performs gain measurements with a fixed FFT plan.
type Calculator struct {
	cfg    Config
	plan   *algofft.Plan[complex128]
	window []float64
	wsum   float64
}

// ConfigFromProcessor derives a Config from processor options; BlockSize is
// used as FFT size and rounded up to a power of two.
func ConfigFromProcessor(opts ...core.ProcessorOption) Config {
	pc := core.ApplyProcessorOptions(opts...)
	return Config{
		SampleRate: pc.SampleRate,
		FFTSize:    nextPowerOf2(pc.BlockSize),
	}
}

// NewCalculator creates a calculator for cfg.
func NewCalculator(cfg Config) (*Calculator, error) {
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("gain: sample rate must be > 0: %v", cfg.SampleRate)
	}
	if cfg.FFTSize < 4 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return nil, fmt.Errorf("gain: FFT size must be a power of two >= 4: %d", cfg.FFTSize)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("gain: fft plan: %w", err)
	}

	w := hann(cfg.FFTSize)
	sum := 0.0
	for _, v := range w {
		sum += v
	}

	return &Calculator{cfg: cfg, plan: plan, window: w, wsum: sum}, nil
}

// Config returns the calculator configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Measure compares input and output at freqHz using the last FFTSize
// samples of each signal. Leading samples are treated as settling time.
func (c *Calculator) Measure(input, output []float64, freqHz float64) (Result, error) {
	n := c.cfg.FFTSize
	if len(input) < n || len(output) < n {
		return Result{}, ErrShortSignal
	}
	if !(freqHz > 0) || freqHz >= c.cfg.SampleRate/2 {
		return Result{}, ErrFrequencyRange
	}

	binHz := c.cfg.SampleRate / float64(n)
	bin := int(math.Round(freqHz / binHz))

	inMag, err := c.magnitude(input[len(input)-n:])
	if err != nil {
		return Result{}, err
	}
	outMag, err := c.magnitude(output[len(output)-n:])
	if err != nil {
		return Result{}, err
	}

	if inMag[bin] == 0 {
		return Result{}, ErrSilentInput
	}

	res := Result{
		Frequency:       freqHz,
		BinFrequency:    float64(bin) * binHz,
		Bin:             bin,
		InputAmplitude:  2 * inMag[bin] / c.wsum,
		OutputAmplitude: 2 * outMag[bin] / c.wsum,
		Gain:            outMag[bin] / inMag[bin],
	}
	res.GainDB = core.LinearToDB(res.Gain)

	return res, nil
}

// magnitude returns |X[k]| for k in [0, n/2] of the windowed block.
func (c *Calculator) magnitude(block []float64) ([]float64, error) {
	n := c.cfg.FFTSize

	buf := make([]float64, n)
	copy(buf, block)
	vecmath.MulBlockInPlace(buf, c.window)

	in := make([]complex128, n)
	for i, v := range buf {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := c.plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("gain: fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// Measure is a one-shot gain measurement.
func Measure(input, output []float64, freqHz float64, cfg Config) (Result, error) {
	c, err := NewCalculator(cfg)
	if err != nil {
		return Result{}, err
	}
	return c.Measure(input, output, freqHz)
}

// hann returns a symmetric Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
