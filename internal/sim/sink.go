package sim

import (
	"io"
	"strconv"
)

// Line format defaults. They match what the serial plotter tooling expects.
const (
	DefaultPrecision  = 2
	DefaultOffset     = 2.0
	DefaultTerminator = "\r\n"
	DefaultBanner     = "2nd Order LPF Simulation Started"
)

// Sink receives the startup banner and one record per filtered sample.
type Sink interface {
	Banner(text string) error
	Sample(in, out float64) error
}

// LineSink writes human-readable lines:
//
//	Input:<in+Offset>,Output:<out><Terminator>
//
// It reuses one buffer and is not safe for concurrent use.
type LineSink struct {
	w          io.Writer
	precision  int
	offset     float64
	terminator string
	buf        []byte
}

// SinkOption configures a LineSink.
type SinkOption func(*LineSink)

// WithPrecision sets the number of decimals. Negative values select the
// shortest representation that round-trips.
func WithPrecision(p int) SinkOption {
	return func(s *LineSink) { s.precision = p }
}

// WithOffset sets the value added to the input column for visual
// separation from the output trace.
func WithOffset(o float64) SinkOption {
	return func(s *LineSink) { s.offset = o }
}

// WithTerminator sets the line terminator.
func WithTerminator(t string) SinkOption {
	return func(s *LineSink) { s.terminator = t }
}

// NewLineSink returns a sink writing to w.
func NewLineSink(w io.Writer, opts ...SinkOption) *LineSink {
	s := &LineSink{
		w:          w,
		precision:  DefaultPrecision,
		offset:     DefaultOffset,
		terminator: DefaultTerminator,
		buf:        make([]byte, 0, 64),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Banner writes text followed by the terminator.
func (s *LineSink) Banner(text string) error {
	s.buf = append(s.buf[:0], text...)
	s.buf = append(s.buf, s.terminator...)
	_, err := s.w.Write(s.buf)
	return err
}

// Sample writes one Input/Output record.
func (s *LineSink) Sample(in, out float64) error {
	s.buf = AppendRecord(s.buf[:0], in+s.offset, out, s.precision)
	s.buf = append(s.buf, s.terminator...)
	_, err := s.w.Write(s.buf)
	return err
}

// AppendRecord appends "Input:<in>,Output:<out>" without terminator.
func AppendRecord(dst []byte, in, out float64, precision int) []byte {
	dst = append(dst, "Input:"...)
	dst = strconv.AppendFloat(dst, in, 'f', precision, 64)
	dst = append(dst, ",Output:"...)
	dst = strconv.AppendFloat(dst, out, 'f', precision, 64)
	return dst
}
