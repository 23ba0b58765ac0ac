package gain

import (
	"fmt"
	"math"
)

// goertzel evaluates one DFT term at an arbitrary frequency.
type goertzel struct {
	coeff  float64
	s0, s1 float64
}

func (g *goertzel) process(x float64) {
	s := x + g.coeff*g.s0 - g.s1
	g.s1 = g.s0
	g.s0 = s
}

// power returns |X(w)|^2 for the samples seen since the last reset.
func (g *goertzel) power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

func (g *goertzel) reset() {
	g.s0, g.s1 = 0, 0
}

// ToneMeter tracks filter gain at one frequency from a live sample stream.
// Every block samples it compares the Goertzel power of input and output.
// Blocks holding a whole number of cycles give exact results.
type ToneMeter struct {
	freq, sampleRate float64
	block, n         int
	in, out          goertzel
}

// NewToneMeter returns a meter for freqHz, evaluated every block samples.
func NewToneMeter(freqHz, sampleRate float64, block int) (*ToneMeter, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("gain: sample rate must be > 0: %v", sampleRate)
	}
	if !(freqHz > 0) || freqHz >= sampleRate/2 {
		return nil, ErrFrequencyRange
	}
	if block <= 0 {
		return nil, fmt.Errorf("gain: block size must be > 0: %d", block)
	}

	coeff := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)

	return &ToneMeter{
		freq:       freqHz,
		sampleRate: sampleRate,
		block:      block,
		in:         goertzel{coeff: coeff},
		out:        goertzel{coeff: coeff},
	}, nil
}

// BlockForCycles returns the smallest block length holding a whole number
// of cycles of freqHz, or fallback if none exists up to limit samples or
// either rate is not a positive finite number.
func BlockForCycles(freqHz, sampleRate float64, limit, fallback int) int {
	if !(freqHz > 0) || !(sampleRate > 0) || math.IsInf(freqHz, 0) || math.IsInf(sampleRate, 0) {
		return fallback
	}

	period := sampleRate / freqHz
	for cycles := 1; cycles <= limit; cycles++ {
		n := period * float64(cycles)
		if n > float64(limit) {
			return fallback
		}
		if r := math.Round(n); math.Abs(n-r) < 1e-9 && r >= 1 {
			return int(r)
		}
	}

	return fallback
}

// Add feeds one input/output pair. When a block completes it returns the
// measurement and true, then starts a new block.
func (m *ToneMeter) Add(in, out float64) (Result, bool) {
	m.in.process(in)
	m.out.process(out)
	m.n++

	if m.n < m.block {
		return Result{}, false
	}

	pin, pout := math.Max(m.in.power(), 0), math.Max(m.out.power(), 0)
	m.Reset()

	res := Result{Frequency: m.freq, BinFrequency: m.freq, Bin: -1}
	if pin == 0 {
		res.Gain = math.NaN()
		res.GainDB = math.NaN()
		return res, true
	}

	scale := 2 / float64(m.block)
	res.InputAmplitude = math.Sqrt(pin) * scale
	res.OutputAmplitude = math.Sqrt(pout) * scale
	res.Gain = math.Sqrt(pout / pin)
	res.GainDB = 10 * math.Log10(pout/pin)

	return res, true
}

// Reset discards the partial block.
func (m *ToneMeter) Reset() {
	m.in.reset()
	m.out.reset()
	m.n = 0
}

// Block returns the block length in samples.
func (m *ToneMeter) Block() int {
	return m.block
}
