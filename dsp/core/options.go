// Package core holds processing configuration and small numeric helpers
// shared by the signal, measurement and simulation packages.
package core

import (
	"fmt"
	"math"
	"time"
)

// Processing defaults. The sample rate matches the rate the built-in
// low-pass coefficients were designed for.
const (
	DefaultSampleRate = 20000.0
	DefaultBlockSize  = 1024
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the simulation defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// SamplePeriod returns 1/SampleRate in seconds.
func (c ProcessorConfig) SamplePeriod() float64 {
	return 1 / c.SampleRate
}

// SampleDuration returns the sample period as a time.Duration, truncated
// to nanoseconds.
func (c ProcessorConfig) SampleDuration() time.Duration {
	return time.Duration(c.SamplePeriod() * float64(time.Second))
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}

// Validate reports whether the config is usable. Configs built with
// ApplyProcessorOptions are always valid; struct literals may not be.
func (c ProcessorConfig) Validate() error {
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 1) {
		return fmt.Errorf("core: sample rate must be > 0: %v", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("core: block size must be > 0: %d", c.BlockSize)
	}
	return nil
}
