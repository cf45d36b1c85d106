package encoding

import "iter"

// ColumnarEncoder accumulates one column of a spike blob.
type ColumnarEncoder[T any] interface {
	// Bytes returns the encoded column. The slice is valid until the next
	// Write, WriteSlice or Finish and must not be modified.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the encoded size in bytes.
	Size() int

	// Finish returns the internal buffer to its pool. The encoder is unusable afterwards.
	//
	//	enc := encoding.NewUvarintEncoder()
	//	defer enc.Finish()
	Finish()

	// Write encodes a single value.
	Write(v T)

	// WriteSlice encodes values in order.
	WriteSlice(values []T)
}

// ColumnarDecoder reads a column produced by the matching ColumnarEncoder.
type ColumnarDecoder[T any] interface {
	// All yields up to count values from data. It stops early on malformed input;
	// use Decode to detect that.
	All(data []byte, count int) iter.Seq[T]

	// Decode appends exactly count values from data to dst. It fails when data
	// holds fewer values or trailing bytes.
	Decode(dst []T, data []byte, count int) ([]T, error)
}
