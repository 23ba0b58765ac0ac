package signal

import "math"

// Source produces one sample per call. Sources are not safe for
// concurrent use.
type Source interface {
	Next() float64
}

// SineSource streams a sine wave at a fixed frequency and sample period.
// Time is derived from a sample counter, so long runs do not accumulate
// rounding drift.
type SineSource struct {
	step      float64 // radians per sample
	amplitude float64
	n         int64
}

// NewSineSource returns a sine source starting at phase zero.
func NewSineSource(sampleRate, freqHz, amplitude float64) *SineSource {
	return &SineSource{
		step:      2 * math.Pi * freqHz / sampleRate,
		amplitude: amplitude,
	}
}

// Next returns the current sample and advances time by one sample period.
func (s *SineSource) Next() float64 {
	v := s.amplitude * math.Sin(s.step*float64(s.n))
	s.n++
	return v
}

// Index returns the number of samples produced so far.
func (s *SineSource) Index() int64 {
	return s.n
}

// Reset rewinds the source to phase zero.
func (s *SineSource) Reset() {
	s.n = 0
}

// SliceSource replays a fixed sequence and then yields zeros.
type SliceSource struct {
	data []float64
	pos  int
}

// NewSliceSource returns a source over data. The slice is not copied.
func NewSliceSource(data []float64) *SliceSource {
	return &SliceSource{data: data}
}

// Next returns the next sample, or 0 once data is exhausted.
func (s *SliceSource) Next() float64 {
	if s.pos >= len(s.data) {
		return 0
	}
	v := s.data[s.pos]
	s.pos++
	return v
}

// Remaining returns the number of samples left before zero padding.
func (s *SliceSource) Remaining() int {
	return len(s.data) - s.pos
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() float64

// Next calls f.
func (f SourceFunc) Next() float64 {
	return f()
}
