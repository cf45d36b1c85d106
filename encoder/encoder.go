package encoder

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/internal/options"
	"github.com/arloliu/ttfs/internal/pool"
	"github.com/arloliu/ttfs/ranges"
	"github.com/arloliu/ttfs/spike"
	"github.com/arloliu/ttfs/topology"
)

// Record maps feature name to value for one traffic record.
type Record map[string]float64

// featureSlot caches the per-feature scaling in feature index order.
type featureSlot struct {
	name   string
	min    float64
	span   float64
	active bool // false for degenerate ranges
}

// Encoder converts records into TTFS spike trains over a fixed channel topology.
//
// An Encoder is safe for concurrent use. Its only mutable state is the jitter
// source, which is advanced under a lock, so output is reproducible for a
// fixed order of Encode calls.
type Encoder struct {
	cfg       Config
	reg       *ranges.Registry
	topo      *topology.Topology
	slots     []featureSlot
	ringWidth float64

	mu  sync.Mutex
	rnd RandSource
}

// New builds an Encoder over the features of reg.
//
// Every registered feature receives NumRings channels, including features with
// degenerate ranges: their channels are reserved but never fire, so the
// channel layout depends only on the set of names.
//
// Parameters:
//   - reg: feature ranges; its sorted names fix the feature indices
//   - opts: encoder options (see DefaultConfig for defaults)
//
// Returns:
//   - *Encoder: ready-to-use encoder
//   - error: errs.ErrInvalidConfig when an option is out of domain
func New(reg *ranges.Registry, opts ...Option) (*Encoder, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil range registry", errs.ErrInvalidConfig)
	}

	cfg := DefaultConfig()
	if err := options.ApplyAndValidate(&cfg, (*Config).validate, opts...); err != nil {
		return nil, err
	}

	topo, err := topology.New(reg.Names(), cfg.NumRings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	slots := make([]featureSlot, 0, topo.FeatureCount())
	for name, rng := range reg.All() {
		slots = append(slots, featureSlot{
			name:   name,
			min:    rng.Min,
			span:   rng.Span(),
			active: !rng.IsDegenerate(),
		})
	}

	rnd := cfg.rand
	if rnd == nil {
		rnd = NewRandSource(cfg.Seed)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	enc := &Encoder{
		cfg:       cfg,
		reg:       reg,
		topo:      topo,
		slots:     slots,
		ringWidth: cfg.RingWidth(),
		rnd:       rnd,
	}

	logger.Debug("ttfs encoder built",
		zap.Int("features", topo.FeatureCount()),
		zap.Int("rings", cfg.NumRings),
		zap.Int("neurons", enc.NumNeurons()),
		zap.Float64("ring_width_ms", enc.ringWidth),
		zap.Bool("skip_zeros", cfg.SkipZeros),
		zap.Uint64("ranges_fingerprint", reg.Fingerprint()),
	)
	if deg := reg.Degenerate(); len(deg) > 0 {
		logger.Warn("features with degenerate ranges will never spike",
			zap.Int("count", len(deg)),
			zap.Strings("features", deg),
		)
	}

	return enc, nil
}

// NumNeurons returns NumRings * feature count, the input width a downstream
// network needs.
func (e *Encoder) NumNeurons() int {
	return e.topo.NumChannels()
}

// FeatureList returns the feature names in feature index order.
func (e *Encoder) FeatureList() []string {
	return e.topo.Features()
}

// Topology returns the channel layout.
func (e *Encoder) Topology() *topology.Topology {
	return e.topo
}

// Registry returns the ranges the encoder was built from.
func (e *Encoder) Registry() *ranges.Registry {
	return e.reg
}

// Config returns the build parameters.
func (e *Encoder) Config() Config {
	cfg := e.cfg
	cfg.rand = nil
	cfg.logger = nil

	return cfg
}

// RingWidth returns the width of one ring window in milliseconds.
func (e *Encoder) RingWidth() float64 {
	return e.ringWidth
}

// Encode converts one record into a spike train sorted by ascending delay.
//
// Values outside a feature's range are saturated. NaN values normalize to 0.
// A record lacking a non-degenerate feature fails with *errs.MissingFeatureError
// before any jitter is drawn, so a failed call leaves the jitter stream untouched.
func (e *Encoder) Encode(rec Record) (spike.Train, error) {
	norms, release := pool.GetFloat64Slice(len(e.slots))
	defer release()

	for i, slot := range e.slots {
		if !slot.active {
			continue
		}
		v, ok := rec[slot.name]
		if !ok {
			return nil, &errs.MissingFeatureError{Feature: slot.name}
		}
		norms[i] = normalize(v, slot.min, slot.span)
	}

	return e.emit(norms), nil
}

// EncodeVector is Encode for a record given positionally in FeatureList order.
func (e *Encoder) EncodeVector(values []float64) (spike.Train, error) {
	if len(values) != len(e.slots) {
		return nil, fmt.Errorf("%w: got %d values, want %d", errs.ErrVectorLength, len(values), len(e.slots))
	}

	norms, release := pool.GetFloat64Slice(len(e.slots))
	defer release()

	for i, slot := range e.slots {
		if slot.active {
			norms[i] = normalize(values[i], slot.min, slot.span)
		}
	}

	return e.emit(norms), nil
}

// emit generates and sorts the spikes for precomputed normalized values.
func (e *Encoder) emit(norms []float64) spike.Train {
	rings := e.cfg.NumRings
	width := e.ringWidth
	jitter := e.cfg.JitterFrac * width

	firing := 0
	for i, slot := range e.slots {
		if e.fires(slot, norms[i]) {
			firing++
		}
	}

	train := make(spike.Train, 0, firing*rings)

	e.mu.Lock()
	for f, slot := range e.slots {
		norm := norms[f]
		if !e.fires(slot, norm) {
			continue
		}

		offset := width * (1 - math.Pow(norm, e.cfg.Gamma))
		for r := range rings {
			base := float64(r) * width
			hi := min(base+width, e.cfg.MaxDelayMS)

			delay := base + offset + uniform(e.rnd.Float64(), jitter)
			delay = min(max(delay, base), hi)

			train = append(train, spike.Spike{Channel: e.topo.Channel(f, r), Delay: delay})
		}
	}
	e.mu.Unlock()

	spike.SortByDelay(train)

	return train
}

func (e *Encoder) fires(slot featureSlot, norm float64) bool {
	if !slot.active {
		return false
	}

	return !e.cfg.SkipZeros || norm > ZeroEpsilon
}

// normalize maps v onto [0, 1] relative to [lo, lo+span], saturating outside.
func normalize(v, lo, span float64) float64 {
	n := (v - lo) / span
	if math.IsNaN(n) {
		return 0
	}

	return min(max(n, 0), 1)
}
