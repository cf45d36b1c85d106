package section

const (
	// Bit masks of the Options word
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicSpikeV1Opt identifies version 1 of the spike blob format (bits 4-15).
	MagicSpikeV1Opt = 0x5710
)

// Offsets and limits of the spike blob.
const (
	HeaderSize          = 32         // fixed header size in bytes
	CountPayloadOffset  = HeaderSize // the per-record counts payload follows the header
	MaxRecordsPerBlob   = 1<<32 - 1  // RecordCount is a uint32
	MaxSpikesPerBlob    = 1<<32 - 1  // SpikeCount is a uint32
	headerChecksumStart = 24
)
