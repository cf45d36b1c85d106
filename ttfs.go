// Package ttfs encodes network-flow feature records into Time-To-First-Spike
// spike trains for spiking neural networks.
//
// Each feature's value is normalized against a known (min, max) range and
// mapped to one spike per delay ring: larger values fire earlier. A record with
// F features encoded over R rings yields up to F*R spikes on channels
// ring*F + featureIndex, sorted by delay.
//
// # Basic Usage
//
//	reg, err := ttfs.LoadRanges("feature_ranges.json")
//	if err != nil {
//	    return err
//	}
//
//	enc, err := ttfs.Build(reg, true)
//	if err != nil {
//	    return err
//	}
//
//	train, err := enc.Encode(encoder.Record{"Flow Duration": 1.2e6, "Fwd Packets": 14})
//	for _, s := range train {
//	    fmt.Println(s.Channel, s.Delay)
//	}
//
// enc.NumNeurons() is the input width of the downstream network and
// enc.FeatureList() maps feature indices back to names.
//
// # Persisting Spikes
//
//	sb, err := ttfs.EncodeBatch(enc, records)
//	os.WriteFile("spikes.blob", sb.Bytes(), 0o644)
//
//	decoded, err := ttfs.DecodeSpikes(data)
//
// # Package Structure
//
// This package wraps the most common calls. Use the sub-packages for full control:
//
//   - ranges: feature range registry, file and SQLite sources
//   - encoder: the TTFS encoder and its options
//   - topology: channel <-> (feature, ring) addressing
//   - spike: spike and train value types
//   - blob: compact binary container for batches of trains
package ttfs

import (
	"context"
	"fmt"

	"github.com/arloliu/ttfs/blob"
	"github.com/arloliu/ttfs/encoder"
	"github.com/arloliu/ttfs/format"
	"github.com/arloliu/ttfs/ranges"
)

// Default encoder parameters.
const (
	DefaultMaxDelayMS = encoder.DefaultMaxDelayMS
	DefaultNumRings   = encoder.DefaultNumRings
	DefaultGamma      = encoder.DefaultGamma
	DefaultJitterFrac = encoder.DefaultJitterFrac
	DefaultSeed       = encoder.DefaultSeed
)

var defaultSpikeBlobOptions = []blob.SpikeEncoderOption{
	blob.WithLittleEndian(),
	blob.WithDelayEncoding(format.DelayFloat32),
	blob.WithCompression(format.CompressionZstd),
}

// LoadRanges reads a JSON or YAML range file.
func LoadRanges(path string) (*ranges.Registry, error) {
	return ranges.Load(path)
}

// LoadRangesSource reads a range file or, for "sqlite://PATH", a SQLite range store.
func LoadRangesSource(ctx context.Context, source string) (*ranges.Registry, error) {
	return ranges.LoadSource(ctx, source)
}

// Build creates an encoder over reg with the default parameters, the given
// skip-zeros policy and any further options.
func Build(reg *ranges.Registry, skipZeros bool, opts ...encoder.Option) (*encoder.Encoder, error) {
	allOpts := append([]encoder.Option{encoder.WithSkipZeros(skipZeros)}, opts...)
	return encoder.New(reg, allOpts...)
}

// NewDefaultEncoder creates an encoder over reg with all default parameters.
func NewDefaultEncoder(reg *ranges.Registry) (*encoder.Encoder, error) {
	return encoder.New(reg)
}

// NewSpikeEncoder creates a spike blob encoder sized for enc, using
// little-endian float32 delays and Zstd compression unless overridden.
func NewSpikeEncoder(enc *encoder.Encoder, opts ...blob.SpikeEncoderOption) (*blob.SpikeEncoder, error) {
	allOpts := append(append([]blob.SpikeEncoderOption{}, defaultSpikeBlobOptions...), opts...)
	return blob.NewSpikeEncoder(enc.NumNeurons(), allOpts...)
}

// EncodeBatch encodes records in order and packs the trains into one spike blob.
func EncodeBatch(enc *encoder.Encoder, records []encoder.Record, opts ...blob.SpikeEncoderOption) (blob.SpikeBlob, error) {
	be, err := NewSpikeEncoder(enc, opts...)
	if err != nil {
		return blob.SpikeBlob{}, err
	}

	for i, rec := range records {
		train, err := enc.Encode(rec)
		if err != nil {
			return blob.SpikeBlob{}, fmt.Errorf("record %d: %w", i, err)
		}
		if err := be.AddTrain(train); err != nil {
			return blob.SpikeBlob{}, fmt.Errorf("record %d: %w", i, err)
		}
	}

	return be.Finish()
}

// DecodeSpikes decodes a serialized spike blob.
func DecodeSpikes(data []byte) (blob.SpikeBlob, error) {
	return blob.DecodeSpikeBlob(data)
}
