package blob

import (
	"fmt"
	"iter"
	"sort"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/spike"
)

// SpikeBlobSet presents several spike blobs of the same channel layout as one
// sequence of records. Record indices are global across the set, in blob order.
type SpikeBlobSet struct {
	blobs      []SpikeBlob
	offsets    []int // offsets[i] is the global index of blob i's first record
	numNeurons int
	total      int
}

// NewSpikeBlobSet creates a set from blobs, which must all have the same neuron count.
//
// Returns:
//   - SpikeBlobSet: the set
//   - error: errs.ErrNoRecordsAdded for an empty set, errs.ErrInvalidConfig
//     for mismatched neuron counts
func NewSpikeBlobSet(blobs ...SpikeBlob) (SpikeBlobSet, error) {
	if len(blobs) == 0 {
		return SpikeBlobSet{}, errs.ErrNoRecordsAdded
	}

	set := SpikeBlobSet{
		blobs:      blobs,
		offsets:    make([]int, len(blobs)),
		numNeurons: blobs[0].NumNeurons(),
	}

	for i, b := range blobs {
		if b.NumNeurons() != set.numNeurons {
			return SpikeBlobSet{}, fmt.Errorf("%w: blob %d has %d neurons, blob 0 has %d",
				errs.ErrInvalidConfig, i, b.NumNeurons(), set.numNeurons)
		}
		set.offsets[i] = set.total
		set.total += b.Len()
	}

	return set, nil
}

// Len returns the total number of records.
func (s SpikeBlobSet) Len() int {
	return s.total
}

// BlobCount returns the number of blobs.
func (s SpikeBlobSet) BlobCount() int {
	return len(s.blobs)
}

// NumNeurons returns the shared channel bound.
func (s SpikeBlobSet) NumNeurons() int {
	return s.numNeurons
}

// At returns the train at global record index i.
func (s SpikeBlobSet) At(i int) (spike.Train, bool) {
	if i < 0 || i >= s.total {
		return nil, false
	}

	// last blob whose first record is <= i; empty blobs are skipped naturally
	b := sort.Search(len(s.offsets), func(k int) bool { return s.offsets[k] > i }) - 1

	return s.blobs[b].At(i - s.offsets[b])
}

// All yields every global record index with its train.
func (s SpikeBlobSet) All() iter.Seq2[int, spike.Train] {
	return func(yield func(int, spike.Train) bool) {
		for b, blob := range s.blobs {
			for i, train := range blob.All() {
				if !yield(s.offsets[b]+i, train) {
					return
				}
			}
		}
	}
}
