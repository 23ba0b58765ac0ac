// Command lpfsim streams a sine wave through the built-in second-order
// low-pass filter and prints Input/Output pairs for a serial plotter.
//
// Usage:
//
//	lpfsim [flags]
//
// Without -port the records go to stdout. With -analyze it prints a
// filter report instead of streaming.
//
// Examples:
//
//	lpfsim -port /dev/ttyUSB0
//	lpfsim -samples 200 -interval 0 -settle 0
//	lpfsim -freq 3000 -offset 0 -precision 4
//	lpfsim -analyze
//	lpfsim -list-ports
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/cmplx"
	"os"
	ossignal "os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/lpfsim/dsp/core"
	"github.com/cwbudde/lpfsim/dsp/filter/iir"
	"github.com/cwbudde/lpfsim/dsp/signal"
	"github.com/cwbudde/lpfsim/internal/sim"
	"github.com/cwbudde/lpfsim/measure/gain"
)

type options struct {
	port      string
	baud      int
	samples   int64
	interval  time.Duration
	settle    time.Duration
	freq      float64
	rate      float64
	amplitude float64
	offset    float64
	precision int
	logLevel  string
	monitor   int
	analyze   bool
	listPorts bool
}

func main() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := sim.DefaultConfig()

	var o options
	fs := flag.NewFlagSet("lpfsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.port, "port", "", "serial device to write to (default stdout)")
	fs.IntVar(&o.baud, "baud", sim.DefaultBaud, "serial baud rate")
	fs.Int64Var(&o.samples, "samples", 0, "number of samples to stream (0 = until interrupted)")
	fs.DurationVar(&o.interval, "interval", def.Interval, "delay between samples (0 = unpaced)")
	fs.DurationVar(&o.settle, "settle", def.Settle, "delay before the startup banner")
	fs.Float64Var(&o.freq, "freq", def.TestFrequency, "test tone frequency in Hz")
	fs.Float64Var(&o.rate, "rate", def.SampleRate, "sample rate in Hz")
	fs.Float64Var(&o.amplitude, "amplitude", def.Amplitude, "test tone amplitude")
	fs.Float64Var(&o.offset, "offset", sim.DefaultOffset, "offset added to the input column")
	fs.IntVar(&o.precision, "precision", sim.DefaultPrecision, "decimals per value (-1 = shortest exact)")
	fs.StringVar(&o.logLevel, "log-level", "warn", "diagnostic log level: debug, info, warn, error")
	fs.IntVar(&o.monitor, "monitor", 0, "log measured gain every N samples (0 = off, -1 = one second of whole cycles)")
	fs.BoolVar(&o.analyze, "analyze", false, "print a filter report and exit")
	fs.BoolVar(&o.listPorts, "list-ports", false, "list serial ports and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpfsim [flags]\n\n")
		fmt.Fprintf(stderr, "Streams Input:<x>,Output:<y> lines from a 2nd order IIR low-pass simulation.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  lpfsim -port /dev/ttyUSB0\n")
		fmt.Fprintf(stderr, "  lpfsim -samples 200 -interval 0 -settle 0\n")
		fmt.Fprintf(stderr, "  lpfsim -analyze\n")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := sim.NewLogger(stderr, o.logLevel)
	if err != nil {
		return err
	}

	pc := core.ProcessorConfig{SampleRate: o.rate, BlockSize: core.DefaultBlockSize}
	if err := pc.Validate(); err != nil {
		return err
	}

	switch {
	case o.listPorts:
		return printPorts(stdout)
	case o.analyze:
		return printAnalysis(stdout, iir.LowPass3k20k(), o.rate, o.freq)
	}

	out := stdout
	if o.port != "" {
		port, err := sim.OpenSerial(o.port, o.baud)
		if err != nil {
			return err
		}
		defer port.Close()

		logger.Info("serial link open", "port", o.port, "baud", o.baud)
		out = port
	}

	cfg := sim.DefaultConfig()
	cfg.SampleRate = o.rate
	cfg.TestFrequency = o.freq
	cfg.Amplitude = o.amplitude
	cfg.Interval = o.interval
	cfg.Settle = o.settle
	cfg.Samples = o.samples

	simOpts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithSink(sim.NewLineSink(out, sim.WithOffset(o.offset), sim.WithPrecision(o.precision))),
	}
	if o.monitor != 0 {
		meter, err := newMonitor(o.freq, o.rate, o.monitor)
		if err != nil {
			return err
		}
		simOpts = append(simOpts, sim.WithGainMonitor(meter))
	}

	s, err := sim.New(cfg, simOpts...)
	if err != nil {
		return err
	}

	stats, err := s.Run(ctx)
	logger.Debug("run complete", "samples", stats.Samples, "duration", stats.Duration)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// newMonitor builds the live gain meter. A negative block selects the
// largest whole-cycle block that fits in one second.
func newMonitor(freq, rate float64, block int) (*gain.ToneMeter, error) {
	if block > 0 {
		return gain.NewToneMeter(freq, rate, block)
	}

	// Checks freq against the rate before sizing the block.
	if _, err := gain.NewToneMeter(freq, rate, 1); err != nil {
		return nil, err
	}

	perSecond := max(1, int(rate))
	block = gain.BlockForCycles(freq, rate, perSecond, perSecond)
	block *= max(1, perSecond/block)

	return gain.NewToneMeter(freq, rate, block)
}

func printPorts(w io.Writer) error {
	ports, err := sim.ListSerialPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		_, err = fmt.Fprintln(w, "no serial ports found")
		return err
	}
	for _, p := range ports {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

// printAnalysis prints the coefficient report: poles, stability, analytic
// and measured magnitude, and the head of the impulse response.
func printAnalysis(w io.Writer, c iir.Coefficients, sampleRate, testFreq float64) error {
	poles, err := c.Poles()
	if err != nil {
		return err
	}
	maxPole, err := c.MaxPoleMagnitude()
	if err != nil {
		return err
	}

	stability := "UNSTABLE"
	if maxPole < 1 {
		stability = "STABLE (all poles inside unit circle)"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Order\t%d\n", c.Order())
	fmt.Fprintf(tw, "B\t%v\n", c.B)
	fmt.Fprintf(tw, "A\t%v\n", c.A)
	fmt.Fprintf(tw, "Sample rate\t%.0f Hz\n", sampleRate)
	for i, p := range poles {
		fmt.Fprintf(tw, "Pole %d\t%.6f%+.6fi  |p|=%.4f\n", i, real(p), imag(p), cmplx.Abs(p))
	}
	fmt.Fprintf(tw, "Max pole magnitude\t%.4f\n", maxPole)
	fmt.Fprintf(tw, "Stability\t%s\n", stability)
	fmt.Fprintf(tw, "DC gain\t%.6f\n", c.DCGain())
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Freq [Hz]\tMagnitude [dB]\tPhase [rad]\t\n")
	nyquist := sampleRate / 2
	for _, f := range []float64{0, 100, 500, 1000, 2000, 3000, 5000, nyquist * 0.9} {
		if f >= nyquist {
			continue
		}
		fmt.Fprintf(tw, "%.0f\t%.2f\t%.4f\t\n", f, c.MagnitudeDB(f, sampleRate), c.Phase(f, sampleRate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	measured, err := measureGain(c, sampleRate, testFreq)
	if err != nil {
		return fmt.Errorf("measure gain: %w", err)
	}
	fmt.Fprintf(w, "\nMeasured gain at %.0f Hz: %.2f dB (analytic %.2f dB)\n",
		testFreq, measured.GainDB, c.MagnitudeDB(testFreq, sampleRate))

	e, err := iir.NewEngine(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Impulse response:")
	for _, v := range e.ImpulseResponse(8) {
		fmt.Fprintf(w, " %.6f", v)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// measureGain filters a test tone and measures the steady-state gain from
// the recorded signals.
func measureGain(c iir.Coefficients, sampleRate, freq float64) (gain.Result, error) {
	opts := []core.ProcessorOption{core.WithSampleRate(sampleRate), core.WithBlockSize(4096)}
	cfg := gain.ConfigFromProcessor(opts...)

	x, err := signal.NewGenerator(opts...).Sine(freq, 1, 4*cfg.FFTSize)
	if err != nil {
		return gain.Result{}, err
	}

	e, err := iir.NewEngine(c)
	if err != nil {
		return gain.Result{}, err
	}
	y := make([]float64, len(x))
	e.ProcessBlockTo(y, x)

	return gain.Measure(x, y, freq, cfg)
}
