// Package compress provides the payload codecs of the spike blob format.
//
// Each spike blob payload (per-record spike counts, channel ids, delays) is
// first encoded column by column and then compressed as a whole with one of:
//
//   - None: pass-through
//   - Zstd: best ratio (github.com/klauspost/compress/zstd)
//   - S2:   balanced (github.com/klauspost/compress/s2)
//   - LZ4:  fastest decompression (github.com/pierrec/lz4/v4)
//
// Channel columns of TTFS trains repeat the same ring-major id pattern from
// record to record, so Zstd and S2 typically shrink them several-fold.
//
// Use CreateCodec or GetCodec to obtain a codec for a format.CompressionType:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// All codecs are stateless values and safe for concurrent use; the Zstd and
// LZ4 codecs draw their working state from sync.Pools.
package compress
