// Package sim drives the low-pass filter simulation: it pulls samples from
// a signal source, runs them through an [iir.Engine], and writes
// "Input:<x>,Output:<y>" lines to a sink at a paced rate.
//
// The filter itself knows nothing about pacing or I/O. Those concerns are
// replaceable collaborators ([Scheduler], [Sink]) owned by the [Simulator].
//
// [iir.Engine]: github.com/cwbudde/lpfsim/dsp/filter/iir.Engine
package sim
