// Package section defines the binary header of the spike blob format.
//
// A spike blob stores a batch of TTFS spike trains in three column payloads:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Counts Payload                                          │
//	│  - uvarint spike count per record                       │
//	├─────────────────────────────────────────────────────────┤
//	│ Channel Payload                                         │
//	│  - uvarint channel id per spike                         │
//	├─────────────────────────────────────────────────────────┤
//	│ Delay Payload (runs to the end of the blob)             │
//	│  - float32 or float64 delay per spike                   │
//	└─────────────────────────────────────────────────────────┘
//
// Each payload is compressed independently with the codec named in the flag.
//
// # Header Format
//
//	Bytes  | Field                | Type   | Description
//	-------|----------------------|--------|----------------------------------
//	0-1    | Options              | uint16 | Magic number and endianness, always little-endian
//	2      | DelayEncoding        | uint8  | 0x1=Float32, 0x2=Float64
//	3      | Compression          | uint8  | 0x1=None, 0x2=Zstd, 0x3=S2, 0x4=LZ4
//	4-7    | RecordCount          | uint32 | Number of spike trains
//	8-11   | NumNeurons           | uint32 | Exclusive bound of channel ids
//	12-15  | SpikeCount           | uint32 | Total spikes over all records
//	16-19  | ChannelPayloadOffset | uint32 | Byte offset of the channel payload
//	20-23  | DelayPayloadOffset   | uint32 | Byte offset of the delay payload
//	24-31  | Checksum             | uint64 | xxHash64 of the uncompressed payloads
//
// Options bits:
//
//	Bit 1: Endianness (0=little-endian, 1=big-endian)
//	Bits 0, 2, 3: Reserved (must be 0)
//	Bits 4-15: Magic number (0x5710)
//
// All fields after byte 3 and all delays use the byte order named by bit 1.
//
//	header := section.NewSpikeHeader(480)
//	header.Flag.WithBigEndian()
//	buf := header.Bytes()
//
//	parsed, err := section.ParseSpikeHeader(buf)
package section
