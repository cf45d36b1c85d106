package blob

import (
	"fmt"

	"github.com/arloliu/ttfs/compress"
	"github.com/arloliu/ttfs/endian"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/format"
	"github.com/arloliu/ttfs/internal/options"
	"github.com/arloliu/ttfs/section"
)

// SpikeEncoderConfig holds the header and codec state shared by a SpikeEncoder's payloads.
type SpikeEncoderConfig struct {
	header *section.SpikeHeader
	codec  compress.Codec
	engine endian.EndianEngine
}

// NewSpikeEncoderConfig creates a config with the default flag: little-endian,
// float32 delays, Zstd compression.
func NewSpikeEncoderConfig(numNeurons uint32) *SpikeEncoderConfig {
	header := section.NewSpikeHeader(numNeurons)

	return &SpikeEncoderConfig{
		header: header,
		engine: header.Flag.GetEndianEngine(),
	}
}

func (c *SpikeEncoderConfig) setDelayEncoding(enc format.DelayEncoding) error {
	if enc.Size() == 0 {
		return fmt.Errorf("%w: invalid delay encoding: %v", errs.ErrInvalidConfig, enc)
	}
	c.header.Flag.DelayEncoding = enc

	return nil
}

func (c *SpikeEncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.Compression = comp
		return nil
	default:
		return fmt.Errorf("%w: invalid compression: %v", errs.ErrInvalidConfig, comp)
	}
}

func (c *SpikeEncoderConfig) setEndianess(big bool) {
	if big {
		c.header.Flag.WithBigEndian()
	} else {
		c.header.Flag.WithLittleEndian()
	}

	c.engine = c.header.Flag.GetEndianEngine()
}

// setCodec resolves the compression codec once all options are applied.
func (c *SpikeEncoderConfig) setCodec() error {
	codec, err := compress.CreateCodec(c.header.Flag.Compression, "spike payload")
	if err != nil {
		return err
	}
	c.codec = codec

	return nil
}

// Header returns the header template. Counts, offsets and checksum are only
// filled in on the header of a finished blob.
func (c *SpikeEncoderConfig) Header() *section.SpikeHeader {
	return c.header
}

// Engine returns the byte order of the blob being encoded.
func (c *SpikeEncoderConfig) Engine() endian.EndianEngine {
	return c.engine
}

// SpikeEncoderOption configures a SpikeEncoder.
type SpikeEncoderOption = options.Option[*SpikeEncoderConfig]

// WithLittleEndian stores the blob little-endian. It is the default option.
func WithLittleEndian() SpikeEncoderOption {
	return options.NoError(func(c *SpikeEncoderConfig) {
		c.setEndianess(false)
	})
}

// WithBigEndian stores the blob big-endian.
func WithBigEndian() SpikeEncoderOption {
	return options.NoError(func(c *SpikeEncoderConfig) {
		c.setEndianess(true)
	})
}

// WithDelayEncoding sets the stored delay width. Float32 is the default.
func WithDelayEncoding(enc format.DelayEncoding) SpikeEncoderOption {
	return options.New(func(c *SpikeEncoderConfig) error {
		return c.setDelayEncoding(enc)
	})
}

// WithCompression sets the codec applied to every payload. Zstd is the default.
func WithCompression(comp format.CompressionType) SpikeEncoderOption {
	return options.New(func(c *SpikeEncoderConfig) error {
		return c.setCompression(comp)
	})
}
