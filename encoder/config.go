package encoder

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/internal/options"
)

// Default encoder parameters.
const (
	DefaultMaxDelayMS       = 20.0
	DefaultNumRings         = 6
	DefaultGamma            = 0.7
	DefaultJitterFrac       = 0.005
	DefaultSeed       int64 = 42
)

// ZeroEpsilon is the normalized value at or below which a feature counts as
// zero for the skip-zeros policy.
const ZeroEpsilon = 1e-9

// Config holds the build-time parameters of an Encoder.
type Config struct {
	// MaxDelayMS is the time budget of one record; spikes fall in [0, MaxDelayMS].
	MaxDelayMS float64
	// NumRings is the number of delay rings per feature.
	NumRings int
	// Gamma is the exponent of the value -> delay curve.
	Gamma float64
	// JitterFrac is the half-width of the uniform jitter, as a fraction of the ring width.
	JitterFrac float64
	// SkipZeros suppresses all spikes of a feature whose normalized value is ~0.
	SkipZeros bool
	// Seed seeds the default jitter source. Ignored when a RandSource is supplied.
	Seed int64

	rand   RandSource
	logger *zap.Logger
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		MaxDelayMS: DefaultMaxDelayMS,
		NumRings:   DefaultNumRings,
		Gamma:      DefaultGamma,
		JitterFrac: DefaultJitterFrac,
		Seed:       DefaultSeed,
	}
}

// RingWidth returns MaxDelayMS / NumRings.
func (c Config) RingWidth() float64 {
	return c.MaxDelayMS / float64(c.NumRings)
}

func (c *Config) validate() error {
	switch {
	case !isFinite(c.MaxDelayMS) || c.MaxDelayMS <= 0:
		return fmt.Errorf("%w: max delay must be a positive number of milliseconds, got %v", errs.ErrInvalidConfig, c.MaxDelayMS)
	case c.NumRings < 1:
		return fmt.Errorf("%w: ring count must be at least 1, got %d", errs.ErrInvalidConfig, c.NumRings)
	case !isFinite(c.Gamma) || c.Gamma <= 0:
		return fmt.Errorf("%w: gamma must be positive, got %v", errs.ErrInvalidConfig, c.Gamma)
	case !isFinite(c.JitterFrac) || c.JitterFrac < 0 || c.JitterFrac >= 1:
		return fmt.Errorf("%w: jitter fraction must be in [0, 1), got %v", errs.ErrInvalidConfig, c.JitterFrac)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Option configures an Encoder.
type Option = options.Option[*Config]

// WithMaxDelay sets the per-record time budget in milliseconds.
func WithMaxDelay(ms float64) Option {
	return options.NoError(func(c *Config) {
		c.MaxDelayMS = ms
	})
}

// WithRings sets the number of delay rings per feature.
func WithRings(n int) Option {
	return options.NoError(func(c *Config) {
		c.NumRings = n
	})
}

// WithGamma sets the exponent of the value -> delay curve. Values below 1
// pull mid-range values toward the early end of each ring.
func WithGamma(g float64) Option {
	return options.NoError(func(c *Config) {
		c.Gamma = g
	})
}

// WithJitterFrac sets the jitter half-width as a fraction of the ring width.
// Zero disables jitter; random draws are still consumed.
func WithJitterFrac(f float64) Option {
	return options.NoError(func(c *Config) {
		c.JitterFrac = f
	})
}

// WithSkipZeros enables or disables the skip-zeros policy.
func WithSkipZeros(skip bool) Option {
	return options.NoError(func(c *Config) {
		c.SkipZeros = skip
	})
}

// WithSeed seeds the default jitter source.
func WithSeed(seed int64) Option {
	return options.NoError(func(c *Config) {
		c.Seed = seed
	})
}

// WithRandSource supplies the jitter source. The encoder takes ownership and
// serializes all access to it. Several encoders may share one source; draws
// are then interleaved in call order.
func WithRandSource(src RandSource) Option {
	return options.New(func(c *Config) error {
		if src == nil {
			return fmt.Errorf("%w: nil random source", errs.ErrInvalidConfig)
		}
		c.rand = src

		return nil
	})
}

// WithLogger sets the logger used at build time. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}
