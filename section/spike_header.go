package section

import (
	"encoding/binary"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/format"
)

// SpikeHeader is the fixed-size header at the start of a spike blob.
//
// The counts payload starts right after the header; ChannelPayloadOffset and
// DelayPayloadOffset mark the start of the other two payloads, and the delay
// payload runs to the end of the blob.
type SpikeHeader struct {
	// Flag is the packed magic, endianness, encoding and compression. byte offset 0-3
	Flag SpikeFlag
	// RecordCount is the number of spike trains. byte offset 4-7
	RecordCount uint32
	// NumNeurons bounds every channel id in the blob. byte offset 8-11
	NumNeurons uint32
	// SpikeCount is the total number of spikes over all records. byte offset 12-15
	SpikeCount uint32
	// ChannelPayloadOffset is the byte offset of the channel payload. byte offset 16-19
	ChannelPayloadOffset uint32
	// DelayPayloadOffset is the byte offset of the delay payload. byte offset 20-23
	DelayPayloadOffset uint32
	// Checksum is the xxHash64 of the three uncompressed payloads. byte offset 24-31
	Checksum uint64
}

// NewSpikeHeader creates a header for numNeurons channels with the default flag.
// Counts, offsets and checksum are filled in when the encoder finishes.
func NewSpikeHeader(numNeurons uint32) *SpikeHeader {
	return &SpikeHeader{
		Flag:       NewSpikeFlag(),
		NumNeurons: numNeurons,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *SpikeHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// the Options word is always little-endian so the endianness bit can be read first
	h.Flag.Options = binary.LittleEndian.Uint16(data[0:2])
	h.Flag.DelayEncoding = format.DelayEncoding(data[2])
	h.Flag.Compression = format.CompressionType(data[3])

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()

	h.RecordCount = engine.Uint32(data[4:8])
	h.NumNeurons = engine.Uint32(data[8:12])
	h.SpikeCount = engine.Uint32(data[12:16])
	h.ChannelPayloadOffset = engine.Uint32(data[16:20])
	h.DelayPayloadOffset = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[headerChecksumStart:HeaderSize])

	return nil
}

// Bytes serializes the header into a new 32-byte slice.
func (h *SpikeHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *SpikeHeader) AppendTo(dst []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	dst = binary.LittleEndian.AppendUint16(dst, h.Flag.Options)
	dst = append(dst, uint8(h.Flag.DelayEncoding), uint8(h.Flag.Compression))
	dst = engine.AppendUint32(dst, h.RecordCount)
	dst = engine.AppendUint32(dst, h.NumNeurons)
	dst = engine.AppendUint32(dst, h.SpikeCount)
	dst = engine.AppendUint32(dst, h.ChannelPayloadOffset)
	dst = engine.AppendUint32(dst, h.DelayPayloadOffset)
	dst = engine.AppendUint64(dst, h.Checksum)

	return dst
}

// ValidateLayout checks the payload offsets against the total blob size.
func (h *SpikeHeader) ValidateLayout(blobSize int) error {
	ch, dl := int(h.ChannelPayloadOffset), int(h.DelayPayloadOffset)
	if ch < CountPayloadOffset || dl < ch || dl > blobSize {
		return errs.ErrInvalidPayload
	}

	return nil
}

// ParseSpikeHeader parses a SpikeHeader from the start of data.
//
// Parameters:
//   - data: Byte slice containing header (must be at least 32 bytes)
//
// Returns:
//   - SpikeHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseSpikeHeader(data []byte) (SpikeHeader, error) {
	if len(data) < HeaderSize {
		return SpikeHeader{}, errs.ErrInvalidHeaderSize
	}

	h := SpikeHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return SpikeHeader{}, err
	}

	return h, nil
}
