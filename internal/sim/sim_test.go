package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/lpfsim/dsp/filter/iir"
	"github.com/cwbudde/lpfsim/dsp/signal"
	"github.com/cwbudde/lpfsim/internal/testutil"
	"github.com/cwbudde/lpfsim/measure/gain"
)

type recordSink struct {
	banners []string
	in, out []float64
	failAt  int
	err     error
}

func (r *recordSink) Banner(text string) error {
	r.banners = append(r.banners, text)
	return nil
}

func (r *recordSink) Sample(in, out float64) error {
	if r.err != nil && len(r.in) == r.failAt {
		return r.err
	}
	r.in = append(r.in, in)
	r.out = append(r.out, out)
	return nil
}

// cancelAfter cancels its context on the n-th Wait.
type cancelAfter struct {
	n, calls int
	cancel   context.CancelFunc
}

func (c *cancelAfter) Wait(ctx context.Context) error {
	c.calls++
	if c.calls == c.n {
		c.cancel()
	}
	return ctx.Err()
}

func offlineConfig(samples int64) Config {
	cfg := DefaultConfig()
	cfg.Interval = 0
	cfg.Settle = 0
	cfg.Samples = samples
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SampleRate != 20000 || cfg.TestFrequency != 1000 {
		t.Fatalf("rate/freq = %v/%v", cfg.SampleRate, cfg.TestFrequency)
	}
	if cfg.Interval != 5*time.Millisecond || cfg.Settle != time.Second {
		t.Fatalf("interval/settle = %v/%v", cfg.Interval, cfg.Settle)
	}
	if cfg.Banner != "2nd Order LPF Simulation Started" {
		t.Fatalf("banner = %q", cfg.Banner)
	}
	if cfg.Coefficients.Order() != 2 {
		t.Fatalf("order = %d", cfg.Coefficients.Order())
	}
}

func TestRun_ImpulseScenario(t *testing.T) {
	sink := &recordSink{}
	s, err := New(offlineConfig(5),
		WithSink(sink),
		WithSource(signal.NewSliceSource([]float64{1, 0, 0, 0, 0})))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Samples != 5 {
		t.Fatalf("Samples = %d, want 5", stats.Samples)
	}
	if len(sink.banners) != 1 || sink.banners[0] != DefaultBanner {
		t.Fatalf("banners = %q", sink.banners)
	}

	testutil.RequireSliceEqual(t, sink.in, []float64{1, 0, 0, 0, 0})
	testutil.RequireSliceNearlyEqual(t, sink.out,
		[]float64{0, 0.020198, 0.036126587156, 0.048279494688139, 0.057132487314261}, 1e-14)
}

func TestRun_SineLines(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(offlineConfig(3), WithSink(NewLineSink(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// in: sin(0), sin(pi/10), sin(pi/5); out: 0, 0, 0.020198*sin(pi/10).
	want := []string{
		"2nd Order LPF Simulation Started",
		"Input:2.00,Output:0.00",
		"Input:2.31,Output:0.00",
		"Input:2.59,Output:0.01",
		"",
	}
	got := strings.Split(buf.String(), "\r\n")
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestRun_MatchesDirectFiltering(t *testing.T) {
	sink := &recordSink{}
	s, err := New(offlineConfig(500), WithSink(sink))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	x := testutil.DeterministicSine(1000, 20000, 1, 500)
	y := make([]float64, len(x))
	iir.MustEngine(iir.LowPass3k20k()).ProcessBlockTo(y, x)

	testutil.RequireSliceEqual(t, sink.in, x)
	testutil.RequireSliceEqual(t, sink.out, y)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordSink{}
	s, err := New(offlineConfig(0), WithSink(sink))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stats.Samples != 0 || len(sink.banners) != 0 {
		t.Fatalf("ran %d samples / %d banners after cancel", stats.Samples, len(sink.banners))
	}
}

func TestRun_CancelDuringLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordSink{}
	sched := &cancelAfter{n: 3, cancel: cancel}
	s, err := New(offlineConfig(0), WithSink(sink), WithScheduler(sched))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stats.Samples != 3 || len(sink.out) != 3 {
		t.Fatalf("Samples = %d, recorded %d, want 3", stats.Samples, len(sink.out))
	}
}

func TestRun_SinkError(t *testing.T) {
	errLink := errors.New("link down")
	sink := &recordSink{failAt: 2, err: errLink}
	s, err := New(offlineConfig(10), WithSink(sink))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(context.Background())
	if !errors.Is(err, errLink) {
		t.Fatalf("err = %v, want %v", err, errLink)
	}
	if stats.Samples != 2 {
		t.Fatalf("Samples = %d, want 2", stats.Samples)
	}
}

func TestRun_Paced(t *testing.T) {
	cfg := offlineConfig(4)
	cfg.Interval = time.Millisecond

	var buf bytes.Buffer
	s, err := New(cfg, WithSink(NewLineSink(&buf)))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Three waits between four samples.
	if stats.Duration < 3*time.Millisecond {
		t.Fatalf("Duration = %v, want >= 3ms", stats.Duration)
	}
}

func TestRun_GainMonitor(t *testing.T) {
	meter, err := gain.NewToneMeter(1000, 20000, 200)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(offlineConfig(450), WithSink(&recordSink{}), WithGainMonitor(meter))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.GainBlocks != 2 {
		t.Fatalf("GainBlocks = %d, want 2", stats.GainBlocks)
	}

	want := iir.LowPass3k20k().MagnitudeDB(1000, 20000)
	if d := stats.Gain.GainDB - want; d > 1e-3 || d < -1e-3 {
		t.Fatalf("monitored gain %.6f dB, analytic %.6f dB", stats.Gain.GainDB, want)
	}
}

func TestRun_Logs(t *testing.T) {
	var logBuf bytes.Buffer
	logger, err := NewLogger(&logBuf, "info")
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(offlineConfig(2), WithSink(&recordSink{}), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	out := logBuf.String()
	if !strings.Contains(out, "simulation started") || !strings.Contains(out, "simulation finished") {
		t.Fatalf("log output missing lifecycle messages: %q", out)
	}
	if strings.Contains(out, "Input:") {
		t.Fatal("sample records leaked into the logger")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		opts   []Option
		want   error
	}{
		{"no sink", func(*Config) {}, nil, ErrNoSink},
		{"bad coefficients", func(c *Config) {
			c.Coefficients = iir.Coefficients{B: []float64{1}, A: []float64{1, 0}}
		}, []Option{WithSink(&recordSink{})}, iir.ErrOrderMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := offlineConfig(1)
			tt.mutate(&cfg)
			if _, err := New(cfg, tt.opts...); !errors.Is(err, tt.want) {
				t.Fatalf("New error = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := offlineConfig(1)
	cfg.SampleRate = 0
	if _, err := New(cfg, WithSink(&recordSink{})); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	cfg = offlineConfig(-1)
	if _, err := New(cfg, WithSink(&recordSink{})); err == nil {
		t.Fatal("expected error for negative sample count")
	}
}

func TestNew_DefaultScheduler(t *testing.T) {
	cfg := DefaultConfig()
	s, err := New(cfg, WithSink(&recordSink{}))
	if err != nil {
		t.Fatal(err)
	}
	ts, ok := s.sched.(*TickerScheduler)
	if !ok || ts.Interval() != DefaultInterval {
		t.Fatalf("scheduler = %#v, want 5ms ticker", s.sched)
	}
	if s.Engine().Order() != 2 {
		t.Fatalf("engine order = %d", s.Engine().Order())
	}

	s, err = New(offlineConfig(1), WithSink(&recordSink{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.sched.(Unpaced); !ok {
		t.Fatalf("scheduler = %#v, want Unpaced", s.sched)
	}
}
