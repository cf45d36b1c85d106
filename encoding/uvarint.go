package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/internal/pool"
)

// UvarintEncoder writes uint32 values as unsigned varints.
//
// It stores per-record spike counts and channel ids: both are small, so most
// values take one or two bytes.
type UvarintEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[uint32] = (*UvarintEncoder)(nil)

// NewUvarintEncoder creates an encoder backed by a pooled buffer.
func NewUvarintEncoder() *UvarintEncoder {
	return &UvarintEncoder{buf: pool.GetPayloadBuffer()}
}

// Write encodes v.
//
// Panics if Finish() has been called.
func (e *UvarintEncoder) Write(v uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(v))
}

// WriteSlice encodes values in order.
//
// Panics if Finish() has been called.
func (e *UvarintEncoder) WriteSlice(values []uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count += len(values)
	e.buf.Grow(len(values) * 2)
	for _, v := range values {
		e.buf.B = binary.AppendUvarint(e.buf.B, uint64(v))
	}
}

// Bytes returns the encoded column.
func (e *UvarintEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *UvarintEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *UvarintEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *UvarintEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// UvarintDecoder reads columns written by UvarintEncoder. It is stateless.
type UvarintDecoder struct{}

var _ ColumnarDecoder[uint32] = UvarintDecoder{}

// NewUvarintDecoder creates a decoder.
func NewUvarintDecoder() UvarintDecoder {
	return UvarintDecoder{}
}

// All yields up to count values from data.
func (d UvarintDecoder) All(data []byte, count int) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for range count {
			v, n := binary.Uvarint(data)
			if n <= 0 || v > 1<<32-1 {
				return
			}
			data = data[n:]
			if !yield(uint32(v)) {
				return
			}
		}
	}
}

// Decode appends exactly count values from data to dst.
func (d UvarintDecoder) Decode(dst []uint32, data []byte, count int) ([]uint32, error) {
	dst = grow(dst, count)
	for i := range count {
		v, n := binary.Uvarint(data)
		if n <= 0 || v > 1<<32-1 {
			return dst, fmt.Errorf("%w: bad uvarint at value %d of %d", errs.ErrInvalidPayload, i, count)
		}
		data = data[n:]
		dst = append(dst, uint32(v))
	}

	if len(data) != 0 {
		return dst, fmt.Errorf("%w: %d trailing bytes after %d uvarints", errs.ErrInvalidPayload, len(data), count)
	}

	return dst, nil
}

func grow[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	out := make([]T, len(s), len(s)+n)
	copy(out, s)

	return out
}
