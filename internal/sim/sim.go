package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/lpfsim/dsp/core"
	"github.com/cwbudde/lpfsim/dsp/filter/iir"
	"github.com/cwbudde/lpfsim/dsp/signal"
	"github.com/cwbudde/lpfsim/measure/gain"
)

// Simulation defaults, taken from the bench setup the coefficients were
// validated on.
const (
	DefaultTestFrequency = iir.PresetTestFrequency
	DefaultAmplitude     = 1.0
	DefaultInterval      = 5 * time.Millisecond
	DefaultSettle        = time.Second
)

// ErrNoSink is returned by New when no sink was configured.
var ErrNoSink = errors.New("sim: no sink configured")

// Config holds the simulation constants.
type Config struct {
	Coefficients  iir.Coefficients
	SampleRate    float64
	TestFrequency float64
	Amplitude     float64
	Interval      time.Duration // pacing between samples, 0 = unpaced
	Settle        time.Duration // delay before the banner
	Samples       int64         // 0 = run until cancelled
	Banner        string
}

// DefaultConfig returns the built-in low-pass setup.
func DefaultConfig() Config {
	return Config{
		Coefficients:  iir.LowPass3k20k(),
		SampleRate:    core.DefaultSampleRate,
		TestFrequency: DefaultTestFrequency,
		Amplitude:     DefaultAmplitude,
		Interval:      DefaultInterval,
		Settle:        DefaultSettle,
		Banner:        DefaultBanner,
	}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the diagnostic logger. Sample records never go here.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSource replaces the default sine source.
func WithSource(src signal.Source) Option {
	return func(s *Simulator) { s.src = src }
}

// WithSink sets the output sink.
func WithSink(sink Sink) Option {
	return func(s *Simulator) { s.sink = sink }
}

// WithScheduler replaces the interval-derived scheduler.
func WithScheduler(sched Scheduler) Option {
	return func(s *Simulator) { s.sched = sched }
}

// WithGainMonitor measures the filter gain on the live stream. Each
// completed block is logged and kept in Stats.
func WithGainMonitor(m *gain.ToneMeter) Option {
	return func(s *Simulator) { s.meter = m }
}

// Stats summarizes a run.
type Stats struct {
	Samples    int64
	Duration   time.Duration
	GainBlocks int
	Gain       gain.Result // last completed monitor block
}

// Simulator owns one filter engine and its collaborators. It runs on the
// caller's goroutine and is not safe for concurrent use.
type Simulator struct {
	cfg    Config
	engine *iir.Engine
	src    signal.Source
	sink   Sink
	sched  Scheduler
	meter  *gain.ToneMeter
	log    *slog.Logger
}

// New validates cfg and assembles a Simulator.
func New(cfg Config, opts ...Option) (*Simulator, error) {
	pc := core.ProcessorConfig{SampleRate: cfg.SampleRate, BlockSize: core.DefaultBlockSize}
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if cfg.Samples < 0 {
		return nil, fmt.Errorf("sim: sample count must be >= 0: %d", cfg.Samples)
	}

	engine, err := iir.NewEngine(cfg.Coefficients)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulator{
		cfg:    cfg,
		engine: engine,
		log:    discardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.sink == nil {
		return nil, ErrNoSink
	}
	if s.src == nil {
		s.src = signal.NewSineSource(cfg.SampleRate, cfg.TestFrequency, cfg.Amplitude)
	}
	if s.sched == nil {
		if cfg.Interval > 0 {
			s.sched = NewTickerScheduler(cfg.Interval)
		} else {
			s.sched = Unpaced{}
		}
	}

	return s, nil
}

// Engine returns the filter engine driven by the simulator.
func (s *Simulator) Engine() *iir.Engine {
	return s.engine
}

// Run writes the banner and then processes samples until cfg.Samples is
// reached or ctx is cancelled. Cancellation is reported as an error
// wrapping ctx.Err().
func (s *Simulator) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	defer func() { stats.Duration = time.Since(start) }()

	if st, ok := s.sched.(interface{ Stop() }); ok {
		defer st.Stop()
	}

	if err := sleep(ctx, s.cfg.Settle); err != nil {
		return stats, fmt.Errorf("sim: settle: %w", err)
	}

	if s.cfg.Banner != "" {
		if err := s.sink.Banner(s.cfg.Banner); err != nil {
			return stats, fmt.Errorf("sim: banner: %w", err)
		}
	}

	s.log.Info("simulation started",
		"order", s.engine.Order(),
		"sample_rate", s.cfg.SampleRate,
		"test_freq", s.cfg.TestFrequency,
		"interval", s.cfg.Interval,
		"samples", s.cfg.Samples)

	for s.cfg.Samples == 0 || stats.Samples < s.cfg.Samples {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.finish(stats, ctxErr)
		}

		in := s.src.Next()
		out := s.engine.Step(in)

		if err := s.sink.Sample(in, out); err != nil {
			return stats, fmt.Errorf("sim: sample %d: %w", stats.Samples, err)
		}
		stats.Samples++

		if s.meter != nil {
			if res, ok := s.meter.Add(in, out); ok {
				stats.Gain = res
				stats.GainBlocks++
				s.log.Info("gain", "freq", res.Frequency, "gain_db", res.GainDB,
					"in_amp", res.InputAmplitude, "out_amp", res.OutputAmplitude)
			}
		}

		if s.cfg.Samples != 0 && stats.Samples == s.cfg.Samples {
			break
		}

		if waitErr := s.sched.Wait(ctx); waitErr != nil {
			return s.finish(stats, waitErr)
		}
	}

	s.log.Info("simulation finished", "samples", stats.Samples)

	return stats, nil
}

func (s *Simulator) finish(stats Stats, err error) (Stats, error) {
	s.log.Info("simulation stopped", "samples", stats.Samples, "reason", err)
	return stats, fmt.Errorf("sim: stopped after %d samples: %w", stats.Samples, err)
}
