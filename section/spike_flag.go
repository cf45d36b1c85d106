package section

import (
	"github.com/arloliu/ttfs/endian"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/format"
)

// SpikeFlag is the packed flag word at the start of a spike blob header.
type SpikeFlag struct {
	// Options packs the endianness and the magic number.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 0, 2 and 3 are reserved and must be 0.
	// Bits 4-15 hold MagicSpikeV1Opt.
	Options uint16

	// DelayEncoding is the width of the stored delays.
	DelayEncoding format.DelayEncoding
	// Compression is the codec applied to every payload.
	Compression format.CompressionType
}

// NewSpikeFlag creates a little-endian flag with float32 delays and Zstd compression.
func NewSpikeFlag() SpikeFlag {
	return SpikeFlag{
		Options:       MagicSpikeV1Opt,
		DelayEncoding: format.DelayFloat32,
		Compression:   format.CompressionZstd,
	}
}

// IsBigEndian returns whether multi-byte fields are big-endian.
func (f SpikeFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *SpikeFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *SpikeFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f SpikeFlag) GetEndianEngine() endian.EndianEngine {
	return endian.EngineFor(f.IsBigEndian())
}

// GetMagicNumber returns the magic number from the Options field.
func (f SpikeFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Validate checks the magic number, the reserved bits and the enum fields.
func (f SpikeFlag) Validate() error {
	if f.GetMagicNumber() != MagicSpikeV1Opt {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if f.DelayEncoding.Size() == 0 {
		return errs.ErrInvalidHeaderFlags
	}

	switch f.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return errs.ErrInvalidHeaderFlags
	}
}
