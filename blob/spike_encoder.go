package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/ttfs/encoding"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/internal/hash"
	"github.com/arloliu/ttfs/internal/options"
	"github.com/arloliu/ttfs/section"
	"github.com/arloliu/ttfs/spike"
)

// SpikeEncoder packs a batch of spike trains into a spike blob.
//
// Note: The SpikeEncoder is NOT thread-safe and NOT reusable. After Finish,
// create a new encoder for the next batch.
type SpikeEncoder struct {
	*SpikeEncoderConfig

	counts   *encoding.UvarintEncoder
	channels *encoding.UvarintEncoder
	delays   *encoding.DelayRawEncoder

	numNeurons int
	spikes     int
	finished   bool
}

// NewSpikeEncoder creates an encoder for trains over numNeurons channels.
//
// Parameters:
//   - numNeurons: exclusive bound of channel ids, usually encoder.Encoder.NumNeurons()
//   - opts: WithDelayEncoding, WithCompression, WithBigEndian, WithLittleEndian
//
// Returns:
//   - *SpikeEncoder: encoder ready for AddTrain
//   - error: errs.ErrInvalidConfig for a bad neuron count or option
func NewSpikeEncoder(numNeurons int, opts ...SpikeEncoderOption) (*SpikeEncoder, error) {
	if numNeurons < 1 || uint64(numNeurons) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: neuron count %d out of range", errs.ErrInvalidConfig, numNeurons)
	}

	cfg := NewSpikeEncoderConfig(uint32(numNeurons))
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.setCodec(); err != nil {
		return nil, err
	}

	return &SpikeEncoder{
		SpikeEncoderConfig: cfg,
		counts:             encoding.NewUvarintEncoder(),
		channels:           encoding.NewUvarintEncoder(),
		delays:             encoding.NewDelayRawEncoder(cfg.engine, cfg.header.Flag.DelayEncoding),
		numNeurons:         numNeurons,
	}, nil
}

// NumNeurons returns the channel bound of the blob.
func (e *SpikeEncoder) NumNeurons() int {
	return e.numNeurons
}

// Len returns the number of trains added so far.
func (e *SpikeEncoder) Len() int {
	return e.counts.Len()
}

// SpikeCount returns the number of spikes added so far.
func (e *SpikeEncoder) SpikeCount() int {
	return e.spikes
}

// AddTrain appends one record's spike train, which may be empty.
//
// The train is validated as a whole before anything is written, so a rejected
// train leaves the encoder unchanged.
//
// Returns:
//   - error: errs.ErrChannelOutOfRange, errs.ErrTooManyRecords or errs.ErrEncoderFinished
func (e *SpikeEncoder) AddTrain(train spike.Train) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}

	if uint64(e.counts.Len()) >= section.MaxRecordsPerBlob ||
		uint64(e.spikes)+uint64(len(train)) > section.MaxSpikesPerBlob {
		return errs.ErrTooManyRecords
	}

	for i, s := range train {
		if s.Channel < 0 || s.Channel >= e.numNeurons {
			return fmt.Errorf("%w: spike %d has channel %d, neuron count is %d",
				errs.ErrChannelOutOfRange, i, s.Channel, e.numNeurons)
		}
	}

	e.counts.Write(uint32(len(train)))
	for _, s := range train {
		e.channels.Write(uint32(s.Channel))
		e.delays.Write(s.Delay)
	}
	e.spikes += len(train)

	return nil
}

// AddTrains calls AddTrain for each train in order and stops at the first error.
func (e *SpikeEncoder) AddTrains(trains ...spike.Train) error {
	for i, t := range trains {
		if err := e.AddTrain(t); err != nil {
			return fmt.Errorf("train %d: %w", i, err)
		}
	}

	return nil
}

// Finish compresses the payloads and assembles the blob.
//
// The encoder's buffers are released whether or not Finish succeeds.
//
// Returns:
//   - SpikeBlob: the finished blob; SpikeBlob.Bytes() is its serialized form
//   - error: errs.ErrNoRecordsAdded, errs.ErrEncoderFinished or a compression failure
func (e *SpikeEncoder) Finish() (SpikeBlob, error) {
	if e.finished {
		return SpikeBlob{}, errs.ErrEncoderFinished
	}
	e.finished = true

	defer e.counts.Finish()
	defer e.channels.Finish()
	defer e.delays.Finish()

	if e.counts.Len() == 0 {
		return SpikeBlob{}, errs.ErrNoRecordsAdded
	}

	countsRaw, channelsRaw, delaysRaw := e.counts.Bytes(), e.channels.Bytes(), e.delays.Bytes()

	header := *e.header
	header.RecordCount = uint32(e.counts.Len()) //nolint: gosec
	header.SpikeCount = uint32(e.spikes)        //nolint: gosec
	header.Checksum = hash.Checksum(countsRaw, channelsRaw, delaysRaw)

	countsPayload, err := e.codec.Compress(countsRaw)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to compress counts payload: %w", err)
	}
	channelsPayload, err := e.codec.Compress(channelsRaw)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to compress channel payload: %w", err)
	}
	delaysPayload, err := e.codec.Compress(delaysRaw)
	if err != nil {
		return SpikeBlob{}, fmt.Errorf("failed to compress delay payload: %w", err)
	}

	header.ChannelPayloadOffset = uint32(section.CountPayloadOffset + len(countsPayload))  //nolint: gosec
	header.DelayPayloadOffset = header.ChannelPayloadOffset + uint32(len(channelsPayload)) //nolint: gosec

	blobSize := int(header.DelayPayloadOffset) + len(delaysPayload)
	data := make([]byte, 0, blobSize)
	data = header.AppendTo(data)
	data = append(data, countsPayload...)
	data = append(data, channelsPayload...)
	data = append(data, delaysPayload...)

	return newSpikeBlob(header, data, countsRaw, channelsRaw, delaysRaw)
}
