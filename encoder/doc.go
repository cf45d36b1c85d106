// Package encoder implements Time-To-First-Spike (TTFS) encoding of numeric
// feature records into timed spikes over multiple delay rings.
//
// # Encoding
//
// The time budget MaxDelayMS is split into NumRings equal windows of width
// W = MaxDelayMS / NumRings. For every feature with a usable range, its value
// is normalized to n in [0, 1] and one spike is emitted per ring r:
//
//	base  = r * W
//	delay = base + W * (1 - n^Gamma) + U(-JitterFrac, JitterFrac) * W
//	delay = clip(delay, base, base + W)
//	channel = r * featureCount + featureIndex
//
// Larger values fire earlier within each ring. The result is sorted by delay
// with ties kept in generation order (feature index, then ring).
//
// # Usage
//
//	reg, err := ranges.Load("feature_ranges.json")
//	if err != nil {
//	    return err
//	}
//
//	enc, err := encoder.New(reg,
//	    encoder.WithSkipZeros(true),
//	    encoder.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	train, err := enc.Encode(encoder.Record{"Flow Duration": 3.2, ...})
//
// enc.NumNeurons() sizes the downstream input layer and enc.FeatureList()
// maps feature indices back to names.
//
// # Determinism
//
// Jitter comes from a single source owned by the Encoder (seeded once, never
// reseeded). Encode calls consume successive draws, so outputs are reproducible
// as an ordered sequence of calls, not individually. Degenerate and skipped
// features draw nothing.
package encoder
