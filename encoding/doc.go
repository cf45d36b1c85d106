// Package encoding provides the column encoders of the spike blob format.
//
// A batch of spike trains is stored as three columns:
//
//   - counts: spikes per record, UvarintEncoder
//   - channels: channel id per spike, UvarintEncoder
//   - delays: delay per spike in milliseconds, DelayRawEncoder
//
// Encoders draw their buffers from internal/pool and must be finished once
// their bytes have been consumed:
//
//	channels := encoding.NewUvarintEncoder()
//	defer channels.Finish()
//	for _, s := range train {
//	    channels.Write(uint32(s.Channel))
//	}
//	payload := channels.Bytes()
//
// Decoders are stateless values. Decode validates that the payload holds
// exactly the expected number of values; All is a lenient iterator.
package encoding
