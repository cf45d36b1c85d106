package hash

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Checksum computes a single xxHash64 over the concatenation of the given payloads.
func Checksum(payloads ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range payloads {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}

// Fingerprint accumulates an order-sensitive xxHash64 over named float pairs.
//
// Each name is length-prefixed so that ("ab","c") and ("a","bc") hash differently.
type Fingerprint struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewFingerprint returns an empty Fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{d: xxhash.New()}
}

// Add mixes one (name, lo, hi) entry into the fingerprint.
func (f *Fingerprint) Add(name string, lo, hi float64) {
	f.putUint64(uint64(len(name)))
	_, _ = f.d.WriteString(name)
	f.putUint64(math.Float64bits(lo))
	f.putUint64(math.Float64bits(hi))
}

// Sum64 returns the fingerprint of all entries added so far.
func (f *Fingerprint) Sum64() uint64 {
	return f.d.Sum64()
}

func (f *Fingerprint) putUint64(v uint64) {
	for i := range f.buf {
		f.buf[i] = byte(v >> (8 * i))
	}
	_, _ = f.d.Write(f.buf[:])
}
