// Package format declares the encoding and compression identifiers stored in
// spike blob headers.
package format

import "strings"

type (
	DelayEncoding   uint8
	CompressionType uint8
)

const (
	DelayFloat32 DelayEncoding = 0x1 // DelayFloat32 stores delays as IEEE 754 binary32.
	DelayFloat64 DelayEncoding = 0x2 // DelayFloat64 stores delays as IEEE 754 binary64.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Size returns the encoded width of one delay in bytes, or 0 for unknown encodings.
func (e DelayEncoding) Size() int {
	switch e {
	case DelayFloat32:
		return 4
	case DelayFloat64:
		return 8
	default:
		return 0
	}
}

func (e DelayEncoding) String() string {
	switch e {
	case DelayFloat32:
		return "Float32"
	case DelayFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive name ("none", "zstd", "s2", "lz4")
// to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.EqualFold(name, c.String()) {
			return c, true
		}
	}

	return 0, false
}
