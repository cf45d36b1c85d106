package blob

import (
	"fmt"

	"github.com/arloliu/ttfs/compress"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/internal/hash"
	"github.com/arloliu/ttfs/section"
)

// SpikeDecoder reconstructs a SpikeBlob from its serialized form.
//
// Note: The SpikeDecoder is NOT thread-safe. Each decoder instance should be used by a single goroutine at a time.
type SpikeDecoder struct {
	data   []byte
	header section.SpikeHeader
	codec  compress.Codec
}

// NewSpikeDecoder validates the header and payload layout of data.
//
// Payloads are not decompressed until Decode is called.
//
// Parameters:
//   - data: serialized spike blob
//
// Returns:
//   - *SpikeDecoder: decoder ready for Decode
//   - error: errs.ErrInvalidHeaderSize, errs.ErrInvalidMagicNumber,
//     errs.ErrInvalidHeaderFlags or errs.ErrInvalidPayload
func NewSpikeDecoder(data []byte) (*SpikeDecoder, error) {
	header, err := section.ParseSpikeHeader(data)
	if err != nil {
		return nil, err
	}

	if err := header.ValidateLayout(len(data)); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(header.Flag.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeaderFlags, err)
	}

	return &SpikeDecoder{data: data, header: header, codec: codec}, nil
}

// Header returns the parsed header.
func (d *SpikeDecoder) Header() section.SpikeHeader {
	return d.header
}

// Decode decompresses the payloads, verifies the checksum and decodes every train.
//
// Returns:
//   - SpikeBlob: decoded blob
//   - error: decompression failures, errs.ErrChecksumMismatch, errs.ErrInvalidPayload
//     or errs.ErrChannelOutOfRange
func (d *SpikeDecoder) Decode() (SpikeBlob, error) {
	chOff, dlOff := d.header.ChannelPayloadOffset, d.header.DelayPayloadOffset

	countsRaw, err := d.codec.Decompress(d.data[section.CountPayloadOffset:chOff])
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to decompress counts payload: %w", err)
	}
	channelsRaw, err := d.codec.Decompress(d.data[chOff:dlOff])
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to decompress channel payload: %w", err)
	}
	delaysRaw, err := d.codec.Decompress(d.data[dlOff:])
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to decompress delay payload: %w", err)
	}

	if sum := hash.Checksum(countsRaw, channelsRaw, delaysRaw); sum != d.header.Checksum {
		return SpikeBlob{}, fmt.Errorf("%w: got %016x, header has %016x", errs.ErrChecksumMismatch, sum, d.header.Checksum)
	}

	return newSpikeBlob(d.header, d.data, countsRaw, channelsRaw, delaysRaw)
}

// DecodeSpikeBlob is NewSpikeDecoder followed by Decode.
func DecodeSpikeBlob(data []byte) (SpikeBlob, error) {
	d, err := NewSpikeDecoder(data)
	if err != nil {
		return SpikeBlob{}, err
	}

	return d.Decode()
}
