package iir

import "errors"

var (
	// ErrEmptyCoefficients is returned when B or A has no taps.
	ErrEmptyCoefficients = errors.New("iir: empty coefficient set")

	// ErrOrderMismatch is returned when B and A have different lengths.
	ErrOrderMismatch = errors.New("iir: numerator and denominator lengths differ")
)

// Coefficients holds the transfer function of an order-N filter:
//
//	H(z) = (B[0] + B[1]*z^-1 + ... + B[N]*z^-N) / (A[0] + A[1]*z^-1 + ... + A[N]*z^-N)
//
// Both slices have N+1 entries. A[0] is expected to be 1.
type Coefficients struct {
	B []float64 // feedforward (numerator)
	A []float64 // feedback (denominator)
}

// Order returns N, or -1 if the set is empty or malformed.
func (c Coefficients) Order() int {
	if c.validate() != nil {
		return -1
	}

	return len(c.B) - 1
}

func (c Coefficients) validate() error {
	if len(c.B) == 0 || len(c.A) == 0 {
		return ErrEmptyCoefficients
	}

	if len(c.B) != len(c.A) {
		return ErrOrderMismatch
	}

	return nil
}

func (c Coefficients) clone() Coefficients {
	return Coefficients{
		B: append([]float64(nil), c.B...),
		A: append([]float64(nil), c.A...),
	}
}

// Engine is a Direct Form I filter with owned input and output history.
// It is not safe for concurrent use.
type Engine struct {
	b, a []float64
	x, y []float64 // newest first
}

// State is a snapshot of both history buffers, newest first.
type State struct {
	X, Y []float64
}

// NewEngine returns an Engine for c with zeroed history. The coefficients
// are copied.
func NewEngine(c Coefficients) (*Engine, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	c = c.clone()
	n := len(c.B)

	return &Engine{
		b: c.B,
		a: c.A,
		x: make([]float64, n),
		y: make([]float64, n),
	}, nil
}

// MustEngine is like NewEngine but panics on an invalid coefficient set.
// It is intended for constant presets.
func MustEngine(c Coefficients) *Engine {
	e, err := NewEngine(c)
	if err != nil {
		panic(err)
	}

	return e
}

// Step filters one input sample and returns the output.
func (e *Engine) Step(x float64) float64 {
	// Shift in lockstep; copy handles the overlap.
	copy(e.x[1:], e.x[:len(e.x)-1])
	copy(e.y[1:], e.y[:len(e.y)-1])
	e.x[0] = x

	var y float64
	for i, b := range e.b {
		y += b * e.x[i]
	}

	for i := 1; i < len(e.a); i++ {
		y -= e.a[i] * e.y[i]
	}

	e.y[0] = y

	return y
}

// ProcessBlock filters buf in-place.
func (e *Engine) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = e.Step(x)
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (e *Engine) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = e.Step(x)
	}
}

// Reset clears both history buffers to zero.
func (e *Engine) Reset() {
	clear(e.x)
	clear(e.y)
}

// Order returns the filter order N.
func (e *Engine) Order() int {
	return len(e.b) - 1
}

// Coefficients returns a copy of the engine coefficients.
func (e *Engine) Coefficients() Coefficients {
	return Coefficients{B: e.b, A: e.a}.clone()
}

// InputHistory returns a copy of the input history, newest first.
func (e *Engine) InputHistory() []float64 {
	return append([]float64(nil), e.x...)
}

// OutputHistory returns a copy of the output history, newest first.
func (e *Engine) OutputHistory() []float64 {
	return append([]float64(nil), e.y...)
}

// State returns a copy of the current history.
func (e *Engine) State() State {
	return State{X: e.InputHistory(), Y: e.OutputHistory()}
}

// setState restores a previously saved history. Entries beyond the filter
// depth are ignored and missing entries are zeroed.
func (e *Engine) setState(s State) {
	e.Reset()
	copy(e.x, s.X)
	copy(e.y, s.Y)
}

// ImpulseResponse computes n samples of h[n] from zeroed history. The
// current state is saved and restored, so the engine is left unchanged.
func (e *Engine) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := e.State()
	e.Reset()

	ir := make([]float64, n)
	ir[0] = e.Step(1)

	for i := 1; i < n; i++ {
		ir[i] = e.Step(0)
	}

	e.setState(saved)

	return ir
}
