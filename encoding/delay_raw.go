package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/ttfs/endian"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/format"
	"github.com/arloliu/ttfs/internal/pool"
)

// DelayRawEncoder writes spike delays as IEEE 754 floats of a fixed width.
//
// With format.DelayFloat32 each delay is rounded to float32, which keeps well
// under a microsecond of precision over the default 20 ms window.
type DelayRawEncoder struct {
	buf      *pool.ByteBuffer
	engine   endian.EndianEngine
	encoding format.DelayEncoding
	count    int
}

var _ ColumnarEncoder[float64] = (*DelayRawEncoder)(nil)

// NewDelayRawEncoder creates an encoder for the given byte order and width.
//
// Parameters:
//   - engine: byte order of the stored floats
//   - enc: format.DelayFloat32 or format.DelayFloat64; anything else falls back to Float64
func NewDelayRawEncoder(engine endian.EndianEngine, enc format.DelayEncoding) *DelayRawEncoder {
	if enc.Size() == 0 {
		enc = format.DelayFloat64
	}

	return &DelayRawEncoder{
		buf:      pool.GetPayloadBuffer(),
		engine:   engine,
		encoding: enc,
	}
}

// Write encodes one delay.
//
// Panics if Finish() has been called.
func (e *DelayRawEncoder) Write(delay float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.append(delay)
}

// WriteSlice encodes delays in order.
//
// Panics if Finish() has been called.
func (e *DelayRawEncoder) WriteSlice(delays []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count += len(delays)
	e.buf.Grow(len(delays) * e.encoding.Size())
	for _, d := range delays {
		e.append(d)
	}
}

func (e *DelayRawEncoder) append(delay float64) {
	if e.encoding == format.DelayFloat32 {
		e.buf.B = e.engine.AppendUint32(e.buf.B, math.Float32bits(float32(delay)))
		return
	}
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(delay))
}

// Encoding returns the stored float width.
func (e *DelayRawEncoder) Encoding() format.DelayEncoding {
	return e.encoding
}

// Bytes returns the encoded column.
func (e *DelayRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded delays.
func (e *DelayRawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *DelayRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *DelayRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// DelayRawDecoder reads columns written by DelayRawEncoder.
type DelayRawDecoder struct {
	engine   endian.EndianEngine
	encoding format.DelayEncoding
}

var _ ColumnarDecoder[float64] = DelayRawDecoder{}

// NewDelayRawDecoder creates a decoder; engine and enc must match the encoder's.
func NewDelayRawDecoder(engine endian.EndianEngine, enc format.DelayEncoding) DelayRawDecoder {
	return DelayRawDecoder{engine: engine, encoding: enc}
}

func (d DelayRawDecoder) at(data []byte, i int) float64 {
	if d.encoding == format.DelayFloat32 {
		return float64(math.Float32frombits(d.engine.Uint32(data[i*4:])))
	}

	return math.Float64frombits(d.engine.Uint64(data[i*8:]))
}

// All yields up to count delays from data.
func (d DelayRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		width := d.encoding.Size()
		if width == 0 {
			return
		}
		n := min(count, len(data)/width)
		for i := range n {
			if !yield(d.at(data, i)) {
				return
			}
		}
	}
}

// Decode appends exactly count delays from data to dst.
func (d DelayRawDecoder) Decode(dst []float64, data []byte, count int) ([]float64, error) {
	width := d.encoding.Size()
	if width == 0 {
		return dst, fmt.Errorf("%w: unknown delay encoding %s", errs.ErrInvalidPayload, d.encoding)
	}
	if len(data) != count*width {
		return dst, fmt.Errorf("%w: delay payload has %d bytes, want %d", errs.ErrInvalidPayload, len(data), count*width)
	}

	dst = grow(dst, count)
	for i := range count {
		dst = append(dst, d.at(data, i))
	}

	return dst, nil
}
