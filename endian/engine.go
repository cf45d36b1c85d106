// Package endian selects the byte order of spike blob headers and delay payloads.
//
// Spike blobs are little-endian by default. A blob written with
// GetBigEndianEngine records that choice in its header flags, and decoders
// pick the matching engine with EngineFor.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(delay))
package endian

import "encoding/binary"

// EndianEngine is a byte order that can both put and append.
//
// binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// EngineFor returns the big-endian engine when bigEndian is set, little-endian otherwise.
func EngineFor(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBigEndian reports whether engine is the big-endian engine.
func IsBigEndian(engine EndianEngine) bool {
	return engine == EndianEngine(binary.BigEndian)
}
