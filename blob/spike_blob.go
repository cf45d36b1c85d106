package blob

import (
	"fmt"
	"iter"

	"github.com/arloliu/ttfs/encoding"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/format"
	"github.com/arloliu/ttfs/section"
	"github.com/arloliu/ttfs/spike"
)

// SpikeBlob is a decoded, immutable batch of spike trains.
type SpikeBlob struct {
	header   section.SpikeHeader
	data     []byte
	starts   []int // starts[i] is the first spike of record i; len(starts) == records+1
	channels []uint32
	delays   []float64
}

// newSpikeBlob decodes the uncompressed columns and checks them against header.
func newSpikeBlob(header section.SpikeHeader, data, countsRaw, channelsRaw, delaysRaw []byte) (SpikeBlob, error) {
	records := int(header.RecordCount)
	total := int(header.SpikeCount)

	counts, err := encoding.NewUvarintDecoder().Decode(make([]uint32, 0, records), countsRaw, records)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("counts payload: %w", err)
	}

	starts := make([]int, records+1)
	for i, c := range counts {
		starts[i+1] = starts[i] + int(c)
	}
	if starts[records] != total {
		return SpikeBlob{}, fmt.Errorf("%w: record counts sum to %d, header says %d spikes",
			errs.ErrInvalidPayload, starts[records], total)
	}

	channels, err := encoding.NewUvarintDecoder().Decode(make([]uint32, 0, total), channelsRaw, total)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("channel payload: %w", err)
	}
	for i, ch := range channels {
		if ch >= header.NumNeurons {
			return SpikeBlob{}, fmt.Errorf("%w: spike %d has channel %d, neuron count is %d",
				errs.ErrChannelOutOfRange, i, ch, header.NumNeurons)
		}
	}

	delayDecoder := encoding.NewDelayRawDecoder(header.Flag.GetEndianEngine(), header.Flag.DelayEncoding)
	delays, err := delayDecoder.Decode(make([]float64, 0, total), delaysRaw, total)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("delay payload: %w", err)
	}

	return SpikeBlob{
		header:   header,
		data:     data,
		starts:   starts,
		channels: channels,
		delays:   delays,
	}, nil
}

// Len returns the number of records.
func (b SpikeBlob) Len() int {
	return int(b.header.RecordCount)
}

// NumNeurons returns the exclusive bound of channel ids.
func (b SpikeBlob) NumNeurons() int {
	return int(b.header.NumNeurons)
}

// SpikeCount returns the number of spikes over all records.
func (b SpikeBlob) SpikeCount() int {
	return int(b.header.SpikeCount)
}

// DelayEncoding returns the stored delay width.
func (b SpikeBlob) DelayEncoding() format.DelayEncoding {
	return b.header.Flag.DelayEncoding
}

// Compression returns the payload codec.
func (b SpikeBlob) Compression() format.CompressionType {
	return b.header.Flag.Compression
}

// IsBigEndian reports whether the blob was written big-endian.
func (b SpikeBlob) IsBigEndian() bool {
	return b.header.Flag.IsBigEndian()
}

// Checksum returns the xxHash64 of the uncompressed payloads.
func (b SpikeBlob) Checksum() uint64 {
	return b.header.Checksum
}

// Bytes returns the serialized blob. The slice must not be modified.
func (b SpikeBlob) Bytes() []byte {
	return b.data
}

// At returns a copy of the train of record i.
func (b SpikeBlob) At(i int) (spike.Train, bool) {
	if i < 0 || i >= b.Len() {
		return nil, false
	}

	return b.train(i), true
}

// All yields every record index with its train.
func (b SpikeBlob) All() iter.Seq2[int, spike.Train] {
	return func(yield func(int, spike.Train) bool) {
		for i := range b.Len() {
			if !yield(i, b.train(i)) {
				return
			}
		}
	}
}

func (b SpikeBlob) train(i int) spike.Train {
	lo, hi := b.starts[i], b.starts[i+1]
	train := make(spike.Train, hi-lo)
	for j := range train {
		train[j] = spike.Spike{Channel: int(b.channels[lo+j]), Delay: b.delays[lo+j]}
	}

	return train
}
